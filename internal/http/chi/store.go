package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-messenger/history"
	"github.com/marcelsud/webhook-messenger/identity"
	"github.com/marcelsud/webhook-messenger/message/embed"
)

type historyEntryResponse struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	Username   string       `json:"username"`
	WebhookURL string       `json:"webhookUrl"`
	Timestamp  time.Time    `json:"timestamp"`
	Embed      *embed.Embed `json:"embed,omitempty"`
}

type scheduledEntryResponse struct {
	ID           string       `json:"id"`
	Content      string       `json:"content"`
	Username     string       `json:"username"`
	WebhookURL   string       `json:"webhookUrl"`
	ScheduledFor time.Time    `json:"scheduledFor"`
	Embed        *embed.Embed `json:"embed,omitempty"`
}

type scheduleRequest struct {
	Content      string        `json:"content"`
	Username     string        `json:"username"`
	WebhookURL   string        `json:"webhookUrl"`
	ScheduledFor time.Time     `json:"scheduledFor"`
	Embed        *embedRequest `json:"embed"`
}

func getHistory(ids identity.UseCase, store history.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionIdentity(r, ids)
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		entries, err := store.ListHistory(r.Context(), id.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		result := make([]historyEntryResponse, 0, len(entries))
		for _, e := range entries {
			result = append(result, historyEntryResponse{
				ID:         e.ID,
				Content:    e.Content,
				Username:   e.Username,
				WebhookURL: e.WebhookURL,
				Timestamp:  e.Timestamp,
				Embed:      e.Embed,
			})
		}
		respondJSON(w, http.StatusOK, result)
	})
}

func deleteHistory(ids identity.UseCase, store history.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionIdentity(r, ids)
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if err := store.DeleteHistory(r.Context(), id.ID, chi.URLParam(r, "id")); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func getScheduled(ids identity.UseCase, store history.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionIdentity(r, ids)
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		entries, err := store.ListScheduled(r.Context(), id.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		result := make([]scheduledEntryResponse, 0, len(entries))
		for _, e := range entries {
			result = append(result, scheduledEntryResponse{
				ID:           e.ID,
				Content:      e.Content,
				Username:     e.Username,
				WebhookURL:   e.WebhookURL,
				ScheduledFor: e.ScheduledFor,
				Embed:        e.Embed,
			})
		}
		respondJSON(w, http.StatusOK, result)
	})
}

func postScheduled(ids identity.UseCase, store history.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionIdentity(r, ids)
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.WebhookURL == "" {
			respondError(w, http.StatusBadRequest, "Webhook URL is required")
			return
		}

		emb, err := embed.Assemble(req.Embed.formFields())
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		entry, err := store.AppendScheduled(r.Context(), id.ID, history.ScheduledEntry{
			Content:      req.Content,
			Username:     req.Username,
			WebhookURL:   req.WebhookURL,
			ScheduledFor: req.ScheduledFor,
			Embed:        emb,
		})
		if err != nil {
			if errors.Is(err, history.ErrInvalidSchedule) {
				respondError(w, http.StatusBadRequest, "Scheduled time must be in the future")
				return
			}
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, scheduledEntryResponse{
			ID:           entry.ID,
			Content:      entry.Content,
			Username:     entry.Username,
			WebhookURL:   entry.WebhookURL,
			ScheduledFor: entry.ScheduledFor,
			Embed:        entry.Embed,
		})
	})
}

func deleteScheduled(ids identity.UseCase, store history.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionIdentity(r, ids)
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if err := store.DeleteScheduled(r.Context(), id.ID, chi.URLParam(r, "id")); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
