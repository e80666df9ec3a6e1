package webhook

import (
	"errors"
	"fmt"
)

// ErrInvalidURL means the destination failed the URL shape check.
// It is returned synchronously, before any network call.
var ErrInvalidURL = errors.New("invalid Discord webhook URL")

// ErrNotFound means the upstream answered 404 for a validation request.
var ErrNotFound = errors.New("webhook not found")

/* UpstreamError means the upstream responded but refused the request.
 * Status is the upstream HTTP status; Message is the human-readable
 * reason extracted from the error body, or synthesized from Status
 * when the body carries none.
 */
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Discord API error: %d", e.Status)
}

// NetworkError means no response was obtained at all: DNS, TLS,
// timeout or connection failure. It carries no status code.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
