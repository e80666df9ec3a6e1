package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marcelsud/webhook-messenger/history"
	"github.com/marcelsud/webhook-messenger/message"
	"github.com/marcelsud/webhook-messenger/message/embed"
	"github.com/marcelsud/webhook-messenger/message/format"
	"github.com/marcelsud/webhook-messenger/metrics"
	"github.com/marcelsud/webhook-messenger/webhook"
)

/* HTTP layer DTOs, separate from domain entities.
 * JSON field names match the original browser client's wire format.
 */

// sendRequest is the raw proxy body: a prebuilt payload plus its destination.
type sendRequest struct {
	WebhookURL string          `json:"webhookUrl"`
	Payload    message.Payload `json:"payload"`
}

// embedRequest is the embed builder form, pre-assembly.
type embedRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       string              `json:"color"`
	Author      string              `json:"author"`
	Footer      string              `json:"footer"`
	Thumbnail   string              `json:"thumbnail"`
	Image       string              `json:"image"`
	Fields      []embedFieldRequest `json:"fields"`
}

type embedFieldRequest struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

func (e *embedRequest) formFields() embed.FormFields {
	if e == nil {
		return embed.FormFields{}
	}
	fields := make([]embed.Field, 0, len(e.Fields))
	for _, f := range e.Fields {
		fields = append(fields, embed.Field{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return embed.FormFields{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
		Author:      e.Author,
		Footer:      e.Footer,
		Thumbnail:   e.Thumbnail,
		Image:       e.Image,
		Fields:      fields,
	}
}

// messageRequest is the full composition form: draft fields, optional
// embed builder input and optional attached image URL.
type messageRequest struct {
	WebhookURL string        `json:"webhookUrl"`
	Username   string        `json:"username"`
	AvatarURL  string        `json:"avatarUrl"`
	Content    string        `json:"content"`
	Embed      *embedRequest `json:"embed"`
	ImageURL   string        `json:"imageUrl"`
}

type previewRequest struct {
	Content string        `json:"content"`
	Embed   *embedRequest `json:"embed"`
}

type previewResponse struct {
	HTML  string       `json:"html"`
	Embed *embed.Embed `json:"embed,omitempty"`
}

// postSend handles POST /v1/send: forward a prebuilt payload as-is.
func postSend(sender webhook.UseCase, rec *metrics.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.WebhookURL == "" {
			respondError(w, http.StatusBadRequest, "Webhook URL is required")
			return
		}

		if err := sender.Send(r.Context(), req.WebhookURL, req.Payload); err != nil {
			writeSendError(w, r, rec, err)
			return
		}

		rec.RecordSend(r.Context(), metrics.OutcomeSuccess)
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
}

// postMessage handles POST /v1/messages: assemble, build, send and,
// when a session is present, record the sent message in history.
func postMessage(svc Services) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.WebhookURL == "" {
			respondError(w, http.StatusBadRequest, "Webhook URL is required")
			return
		}
		if req.Content == "" && req.Embed == nil {
			respondError(w, http.StatusBadRequest, "Message content is required")
			return
		}

		emb, err := embed.Assemble(req.Embed.formFields())
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		username := req.Username
		if username == "" {
			username = message.DefaultUsername
		}
		draft := message.Draft{
			WebhookURL: req.WebhookURL,
			Username:   username,
			AvatarURL:  req.AvatarURL,
			Content:    req.Content,
		}
		payload := message.BuildPayload(draft, emb, req.ImageURL)

		if err := svc.Webhook.Send(r.Context(), req.WebhookURL, payload); err != nil {
			writeSendError(w, r, svc.Metrics, err)
			return
		}
		svc.Metrics.RecordSend(r.Context(), metrics.OutcomeSuccess)

		// History keeps the draft content, without the appended image line
		if id, ok := sessionIdentity(r, svc.Identity); ok {
			_, err := svc.History.AppendHistory(r.Context(), id.ID, history.Entry{
				Content:    req.Content,
				Username:   username,
				WebhookURL: req.WebhookURL,
				Embed:      emb,
			})
			if err != nil {
				// The message is already delivered; surface success anyway
				logError(r, "recording history", err)
			}
		}

		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
}

// postValidate handles POST /v1/validate
func postValidate(validator webhook.UseCase, rec *metrics.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			WebhookURL string `json:"webhookUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.WebhookURL == "" {
			respondError(w, http.StatusBadRequest, "Webhook URL is required")
			return
		}

		info, err := validator.Validate(r.Context(), req.WebhookURL)
		if err != nil {
			rec.RecordValidation(r.Context(), validationOutcome(err))
			switch {
			case errors.Is(err, webhook.ErrInvalidURL):
				respondError(w, http.StatusBadRequest, "Invalid Discord webhook URL")
			case errors.Is(err, webhook.ErrNotFound):
				respondError(w, http.StatusNotFound, "Webhook not found")
			default:
				var netErr *webhook.NetworkError
				if errors.As(err, &netErr) {
					respondError(w, http.StatusInternalServerError, "Failed to validate webhook")
					return
				}
				respondError(w, http.StatusBadRequest, "Invalid webhook")
			}
			return
		}

		rec.RecordValidation(r.Context(), metrics.OutcomeSuccess)
		respondJSON(w, http.StatusOK, map[string]any{
			"valid": true,
			"channelInfo": map[string]string{
				"name":    info.Name,
				"guildId": info.GuildID,
			},
		})
	})
}

// postPreview handles POST /v1/preview: the pure projection from draft
// to preview, with no side effects.
func postPreview() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		emb, err := embed.Assemble(req.Embed.formFields())
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, previewResponse{
			HTML:  format.Format(req.Content),
			Embed: emb,
		})
	})
}

// writeSendError maps a dispatch failure onto the proxy response:
// upstream status forwarded with its message, 400 for a bad URL, 500
// when no response was obtained.
func writeSendError(w http.ResponseWriter, r *http.Request, rec *metrics.Recorder, err error) {
	switch {
	case errors.Is(err, webhook.ErrInvalidURL):
		rec.RecordSend(r.Context(), metrics.OutcomeInvalid)
		respondError(w, http.StatusBadRequest, "Invalid Discord webhook URL")
		return
	}

	var upstream *webhook.UpstreamError
	if errors.As(err, &upstream) {
		rec.RecordSend(r.Context(), metrics.OutcomeRejected)
		respondError(w, upstream.Status, upstream.Error())
		return
	}

	var netErr *webhook.NetworkError
	if errors.As(err, &netErr) {
		rec.RecordSend(r.Context(), metrics.OutcomeNetwork)
		respondError(w, http.StatusInternalServerError, "Failed to send webhook message")
		return
	}

	rec.RecordSend(r.Context(), metrics.OutcomeNetwork)
	respondError(w, http.StatusInternalServerError, "Failed to send webhook message")
}

func validationOutcome(err error) string {
	switch {
	case errors.Is(err, webhook.ErrInvalidURL):
		return metrics.OutcomeInvalid
	case errors.Is(err, webhook.ErrNotFound):
		return metrics.OutcomeRejected
	default:
		var netErr *webhook.NetworkError
		if errors.As(err, &netErr) {
			return metrics.OutcomeNetwork
		}
		return metrics.OutcomeRejected
	}
}
