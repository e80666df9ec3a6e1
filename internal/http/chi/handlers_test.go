package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/marcelsud/webhook-messenger/history"
	"github.com/marcelsud/webhook-messenger/identity"
	"github.com/marcelsud/webhook-messenger/message"
	"github.com/marcelsud/webhook-messenger/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testWebhookURL = "https://discord.com/api/webhooks/123/token"

/* Hand-written testify mocks of the use case interfaces */

type webhookMock struct {
	mock.Mock
}

func (m *webhookMock) Validate(ctx context.Context, url string) (webhook.ChannelInfo, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(webhook.ChannelInfo), args.Error(1)
}

func (m *webhookMock) Send(ctx context.Context, url string, payload message.Payload) error {
	args := m.Called(ctx, url, payload)
	return args.Error(0)
}

type historyMock struct {
	mock.Mock
}

func (m *historyMock) AppendHistory(ctx context.Context, identityID string, entry history.Entry) (history.Entry, error) {
	args := m.Called(ctx, identityID, entry)
	return args.Get(0).(history.Entry), args.Error(1)
}

func (m *historyMock) ListHistory(ctx context.Context, identityID string) ([]history.Entry, error) {
	args := m.Called(ctx, identityID)
	return args.Get(0).([]history.Entry), args.Error(1)
}

func (m *historyMock) DeleteHistory(ctx context.Context, identityID, entryID string) error {
	args := m.Called(ctx, identityID, entryID)
	return args.Error(0)
}

func (m *historyMock) AppendScheduled(ctx context.Context, identityID string, entry history.ScheduledEntry) (history.ScheduledEntry, error) {
	args := m.Called(ctx, identityID, entry)
	return args.Get(0).(history.ScheduledEntry), args.Error(1)
}

func (m *historyMock) ListScheduled(ctx context.Context, identityID string) ([]history.ScheduledEntry, error) {
	args := m.Called(ctx, identityID)
	return args.Get(0).([]history.ScheduledEntry), args.Error(1)
}

func (m *historyMock) DeleteScheduled(ctx context.Context, identityID, entryID string) error {
	args := m.Called(ctx, identityID, entryID)
	return args.Error(0)
}

func postJSON(t *testing.T, h http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPostSend(t *testing.T) {
	ctx := context.Background()

	t.Run("success - payload forwarded", func(t *testing.T) {
		sender := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: sender, Identity: identity.NewService()})

		sender.On("Send", mock.Anything, testWebhookURL, mock.MatchedBy(func(p message.Payload) bool {
			return p.Content == "hello" && p.Username == "bot"
		})).Return(nil)

		w := postJSON(t, h, "/v1/send", map[string]any{
			"webhookUrl": testWebhookURL,
			"payload":    map[string]any{"username": "bot", "content": "hello"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		sender.AssertExpectations(t)
	})

	t.Run("error - missing webhook url", func(t *testing.T) {
		sender := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: sender, Identity: identity.NewService()})

		w := postJSON(t, h, "/v1/send", map[string]any{
			"payload": map[string]any{"content": "hello"},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - invalid webhook url", func(t *testing.T) {
		sender := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: sender, Identity: identity.NewService()})

		sender.On("Send", mock.Anything, "https://example.com/x", mock.Anything).
			Return(webhook.ErrInvalidURL)

		w := postJSON(t, h, "/v1/send", map[string]any{
			"webhookUrl": "https://example.com/x",
			"payload":    map[string]any{"content": "hello"},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid Discord webhook URL")
	})

	t.Run("error - upstream status and message forwarded", func(t *testing.T) {
		sender := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: sender, Identity: identity.NewService()})

		sender.On("Send", mock.Anything, testWebhookURL, mock.Anything).
			Return(&webhook.UpstreamError{Status: http.StatusTooManyRequests, Message: "rate limited"})

		w := postJSON(t, h, "/v1/send", map[string]any{
			"webhookUrl": testWebhookURL,
			"payload":    map[string]any{"content": "hello"},
		}, nil)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "rate limited")
	})

	t.Run("error - network failure maps to 500", func(t *testing.T) {
		sender := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: sender, Identity: identity.NewService()})

		sender.On("Send", mock.Anything, testWebhookURL, mock.Anything).
			Return(&webhook.NetworkError{Err: context.DeadlineExceeded})

		w := postJSON(t, h, "/v1/send", map[string]any{
			"webhookUrl": testWebhookURL,
			"payload":    map[string]any{"content": "hello"},
		}, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to send webhook message")
	})
}

func TestPostMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("success - composed payload with embed and image line", func(t *testing.T) {
		sender := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: sender, Identity: identity.NewService()})

		sender.On("Send", mock.Anything, testWebhookURL, mock.MatchedBy(func(p message.Payload) bool {
			return p.Content == "**done**\nhttps://x/y.png" &&
				p.Username == "release-bot" &&
				len(p.Embeds) == 1 &&
				p.Embeds[0].Title == "Release"
		})).Return(nil)

		w := postJSON(t, h, "/v1/messages", map[string]any{
			"webhookUrl": testWebhookURL,
			"username":   "release-bot",
			"content":    "**done**",
			"imageUrl":   "https://x/y.png",
			"embed":      map[string]any{"title": "Release"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		sender.AssertExpectations(t)
	})

	t.Run("success - blank username falls back to default", func(t *testing.T) {
		sender := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: sender, Identity: identity.NewService()})

		sender.On("Send", mock.Anything, testWebhookURL, mock.MatchedBy(func(p message.Payload) bool {
			return p.Username == message.DefaultUsername
		})).Return(nil)

		w := postJSON(t, h, "/v1/messages", map[string]any{
			"webhookUrl": testWebhookURL,
			"content":    "hi",
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success - history recorded for a live session", func(t *testing.T) {
		sender := new(webhookMock)
		store := new(historyMock)
		ids := identity.NewService()
		_, token, err := ids.Login("demo@example.com", "demo123")
		require.NoError(t, err)

		h := Handlers(ctx, Services{Webhook: sender, History: store, Identity: ids})

		sender.On("Send", mock.Anything, testWebhookURL, mock.Anything).Return(nil)
		store.On("AppendHistory", mock.Anything, "1", mock.MatchedBy(func(e history.Entry) bool {
			// history keeps the draft content without the image line
			return e.Content == "**done**" && e.WebhookURL == testWebhookURL
		})).Return(history.Entry{ID: "h1"}, nil)

		w := postJSON(t, h, "/v1/messages", map[string]any{
			"webhookUrl": testWebhookURL,
			"content":    "**done**",
			"imageUrl":   "https://x/y.png",
		}, map[string]string{sessionHeader: token})

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("error - empty content and no embed", func(t *testing.T) {
		sender := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: sender, Identity: identity.NewService()})

		w := postJSON(t, h, "/v1/messages", map[string]any{
			"webhookUrl": testWebhookURL,
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPostValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("success - channel info returned", func(t *testing.T) {
		validator := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: validator, Identity: identity.NewService()})

		validator.On("Validate", mock.Anything, testWebhookURL).
			Return(webhook.ChannelInfo{Name: "987", GuildID: "111"}, nil)

		w := postJSON(t, h, "/v1/validate", map[string]any{"webhookUrl": testWebhookURL}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"valid":true,"channelInfo":{"name":"987","guildId":"111"}}`, w.Body.String())
	})

	t.Run("error - not found passes through as 404", func(t *testing.T) {
		validator := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: validator, Identity: identity.NewService()})

		validator.On("Validate", mock.Anything, testWebhookURL).
			Return(webhook.ChannelInfo{}, webhook.ErrNotFound)

		w := postJSON(t, h, "/v1/validate", map[string]any{"webhookUrl": testWebhookURL}, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Webhook not found")
	})

	t.Run("error - upstream refusal becomes 400 invalid webhook", func(t *testing.T) {
		validator := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: validator, Identity: identity.NewService()})

		validator.On("Validate", mock.Anything, testWebhookURL).
			Return(webhook.ChannelInfo{}, &webhook.UpstreamError{Status: http.StatusUnauthorized})

		w := postJSON(t, h, "/v1/validate", map[string]any{"webhookUrl": testWebhookURL}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid webhook")
	})

	t.Run("error - missing url", func(t *testing.T) {
		validator := new(webhookMock)
		h := Handlers(ctx, Services{Webhook: validator, Identity: identity.NewService()})

		w := postJSON(t, h, "/v1/validate", map[string]any{}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		validator.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
	})
}

func TestPostPreview(t *testing.T) {
	ctx := context.Background()

	t.Run("success - formatted html and assembled embed", func(t *testing.T) {
		h := Handlers(ctx, Services{Identity: identity.NewService()})

		w := postJSON(t, h, "/v1/preview", map[string]any{
			"content": "**a** *b*",
			"embed":   map[string]any{"title": "T"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp previewResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "<strong>a</strong> <em>b</em>", resp.HTML)
		require.NotNil(t, resp.Embed)
		assert.Equal(t, "T", resp.Embed.Title)
	})

	t.Run("success - empty embed omitted", func(t *testing.T) {
		h := Handlers(ctx, Services{Identity: identity.NewService()})

		w := postJSON(t, h, "/v1/preview", map[string]any{"content": "plain"}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "embed")
	})
}

func TestHistoryEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("error - listing without a session", func(t *testing.T) {
		h := Handlers(ctx, Services{Identity: identity.NewService(), History: new(historyMock)})

		req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success - list and delete with a session", func(t *testing.T) {
		store := new(historyMock)
		ids := identity.NewService()
		_, token, err := ids.Login("demo@example.com", "demo123")
		require.NoError(t, err)
		h := Handlers(ctx, Services{Identity: ids, History: store})

		entries := []history.Entry{{ID: "h1", Content: "hello", Timestamp: time.Now()}}
		store.On("ListHistory", mock.Anything, "1").Return(entries, nil)
		store.On("DeleteHistory", mock.Anything, "1", "h1").Return(nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
		req.Header.Set(sessionHeader, token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var result []historyEntryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		require.Len(t, result, 1)
		assert.Equal(t, "h1", result[0].ID)

		req = httptest.NewRequest(http.MethodDelete, "/v1/history/h1", nil)
		req.Header.Set(sessionHeader, token)
		w = httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		store.AssertExpectations(t)
	})
}

func TestScheduledEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("error - past schedule becomes 400", func(t *testing.T) {
		store := new(historyMock)
		ids := identity.NewService()
		_, token, err := ids.Login("demo@example.com", "demo123")
		require.NoError(t, err)
		h := Handlers(ctx, Services{Identity: ids, History: store})

		store.On("AppendScheduled", mock.Anything, "1", mock.Anything).
			Return(history.ScheduledEntry{}, history.ErrInvalidSchedule)

		w := postJSON(t, h, "/v1/scheduled", map[string]any{
			"webhookUrl":   testWebhookURL,
			"content":      "late",
			"scheduledFor": time.Now().Add(-time.Hour).Format(time.RFC3339),
		}, map[string]string{sessionHeader: token})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "future")
	})

	t.Run("success - schedule created", func(t *testing.T) {
		store := new(historyMock)
		ids := identity.NewService()
		_, token, err := ids.Login("demo@example.com", "demo123")
		require.NoError(t, err)
		h := Handlers(ctx, Services{Identity: ids, History: store})

		when := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
		store.On("AppendScheduled", mock.Anything, "1", mock.MatchedBy(func(e history.ScheduledEntry) bool {
			return e.Content == "later" && e.ScheduledFor.Equal(when)
		})).Return(history.ScheduledEntry{ID: "s1", Content: "later", ScheduledFor: when}, nil)

		w := postJSON(t, h, "/v1/scheduled", map[string]any{
			"webhookUrl":   testWebhookURL,
			"content":      "later",
			"scheduledFor": when.Format(time.RFC3339),
		}, map[string]string{sessionHeader: token})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"s1"`)
	})
}

func TestAuthEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("success - login issues a usable token", func(t *testing.T) {
		h := Handlers(ctx, Services{Identity: identity.NewService()})

		w := postJSON(t, h, "/v1/auth/login", map[string]any{
			"email":    "demo@example.com",
			"password": "demo123",
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp sessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "Demo User", resp.User.Username)
	})

	t.Run("error - wrong credentials", func(t *testing.T) {
		h := Handlers(ctx, Services{Identity: identity.NewService()})

		w := postJSON(t, h, "/v1/auth/login", map[string]any{
			"email":    "demo@example.com",
			"password": "nope",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success - register then logout invalidates the session", func(t *testing.T) {
		ids := identity.NewService()
		h := Handlers(ctx, Services{Identity: ids, History: new(historyMock)})

		w := postJSON(t, h, "/v1/auth/register", map[string]any{
			"username": "new",
			"email":    "new@example.com",
			"password": "pw",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp sessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		w = postJSON(t, h, "/v1/auth/logout", map[string]any{}, map[string]string{sessionHeader: resp.Token})
		assert.Equal(t, http.StatusNoContent, w.Code)

		req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
		req.Header.Set(sessionHeader, resp.Token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetTargets(t *testing.T) {
	ctx := context.Background()

	t.Run("success - empty list without a loader", func(t *testing.T) {
		h := Handlers(ctx, Services{Identity: identity.NewService()})

		req := httptest.NewRequest(http.MethodGet, "/v1/targets", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})
}
