package chi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-messenger/history"
	"github.com/marcelsud/webhook-messenger/identity"
	"github.com/marcelsud/webhook-messenger/metrics"
	"github.com/marcelsud/webhook-messenger/targets"
	"github.com/marcelsud/webhook-messenger/upload"
	"github.com/marcelsud/webhook-messenger/webhook"
)

// Services collects everything the HTTP layer depends on.
// Metrics and Targets may be nil; the affected endpoints degrade to
// no-ops or an empty list.
type Services struct {
	Webhook  webhook.UseCase
	History  history.UseCase
	Identity identity.UseCase
	Upload   upload.UseCase
	Targets  *targets.Loader
	Metrics  *metrics.Recorder

	// UploadDir, when set, is served under /uploads/.
	UploadDir string
}

// Handlers sets up the API routes
func Handlers(ctx context.Context, svc Services) *chi.Mux {
	logger := httplog.NewLogger("webhook-messenger", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if svc.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", svc.Metrics.Handler())
	}

	if svc.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(svc.UploadDir))))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/send", postSend(svc.Webhook, svc.Metrics))
		r.Method(http.MethodPost, "/validate", postValidate(svc.Webhook, svc.Metrics))
		r.Method(http.MethodPost, "/preview", postPreview())
		r.Method(http.MethodPost, "/messages", postMessage(svc))
		r.Method(http.MethodPost, "/upload", postUpload(svc.Upload, svc.Metrics))

		r.Method(http.MethodPost, "/auth/register", postRegister(svc.Identity))
		r.Method(http.MethodPost, "/auth/login", postLogin(svc.Identity))
		r.Method(http.MethodPost, "/auth/logout", postLogout(svc.Identity))

		r.Method(http.MethodGet, "/history", getHistory(svc.Identity, svc.History))
		r.Method(http.MethodDelete, "/history/{id}", deleteHistory(svc.Identity, svc.History))

		r.Method(http.MethodGet, "/scheduled", getScheduled(svc.Identity, svc.History))
		r.Method(http.MethodPost, "/scheduled", postScheduled(svc.Identity, svc.History))
		r.Method(http.MethodDelete, "/scheduled/{id}", deleteScheduled(svc.Identity, svc.History))

		r.Method(http.MethodGet, "/targets", getTargets(svc.Targets))
	})

	return r
}

// sessionHeader carries the opaque session token on authenticated calls.
const sessionHeader = "X-Session-Token"

// sessionIdentity resolves the request's session, if any.
func sessionIdentity(r *http.Request, ids identity.UseCase) (identity.Identity, bool) {
	token := r.Header.Get(sessionHeader)
	if token == "" {
		return identity.Identity{}, false
	}
	id, err := ids.Session(token)
	if err != nil {
		return identity.Identity{}, false
	}
	return id, true
}

// logError logs through slog, which the httplog middleware configures.
func logError(r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
