package history

import "context"

/* Small, focused interfaces; the repository stores whole per-identity
 * lists because the accepted concurrency semantics are last-write-wins
 * on the list (single logical session per identity).
 */

// Reader provides read operations for stored entries
type Reader interface {
	GetHistory(ctx context.Context, identityID string) ([]Entry, error)
	GetScheduled(ctx context.Context, identityID string) ([]ScheduledEntry, error)
}

// Writer provides write operations for stored entries
type Writer interface {
	PutHistory(ctx context.Context, identityID string, entries []Entry) error
	PutScheduled(ctx context.Context, identityID string, entries []ScheduledEntry) error
}

// Repository composes the store operations
type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
