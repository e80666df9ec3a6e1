package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/marcelsud/webhook-messenger/message"
)

/* Client implements UseCase against the real endpoint.
 * Pointer semantics: it is an API, not data.
 */
type Client struct {
	HTTPClient *http.Client
}

// DefaultTimeout bounds every outbound call; expiry surfaces as a NetworkError.
const DefaultTimeout = 15 * time.Second

// NewClient creates a webhook client with a bounded request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// validateResponse is the upstream metadata body for a webhook URL.
// Discord labels the channel by its id here; the original UI surfaces
// channel_id as the display name.
type validateResponse struct {
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id"`
}

// errorResponse is the upstream error body shape.
type errorResponse struct {
	Message string `json:"message"`
}

// Validate checks the URL shape, then issues a GET for webhook metadata.
func (c *Client) Validate(ctx context.Context, url string) (ChannelInfo, error) {
	if !ValidURL(url) {
		return ChannelInfo{}, ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ChannelInfo{}, fmt.Errorf("building validation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return ChannelInfo{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ChannelInfo{}, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ChannelInfo{}, &UpstreamError{Status: resp.StatusCode}
	}

	var body validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ChannelInfo{}, fmt.Errorf("decoding webhook metadata: %w", err)
	}

	return ChannelInfo{
		Name:    body.ChannelID,
		GuildID: body.GuildID,
	}, nil
}

// Send POSTs the payload to the webhook URL. The URL shape check is
// deliberately repeated here: validation is optional and must never be
// a prerequisite for sending.
func (c *Client) Send(ctx context.Context, url string, payload message.Payload) error {
	if !ValidURL(url) {
		return ErrInvalidURL
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstream := &UpstreamError{Status: resp.StatusCode}
		var body errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			upstream.Message = body.Message
		}
		return upstream
	}

	return nil
}
