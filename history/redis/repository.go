package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-messenger/history"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of history.Repository
 * Each identity's lists are stored whole, as JSON arrays:
 *   history:<identityId>   -> []history.Entry
 *   scheduled:<identityId> -> []history.ScheduledEntry
 * Whole-list writes give the accepted last-write-wins semantics
 * without any locking.
 */

const (
	historyPrefix   = "history"
	scheduledPrefix = "scheduled"
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

// GetHistory loads an identity's history list; a missing key is an empty list.
func (r *Repository) GetHistory(ctx context.Context, identityID string) ([]history.Entry, error) {
	data, err := r.client.Get(ctx, historyKey(identityID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting history: %w", err)
	}

	var entries []history.Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("unmarshaling history: %w", err)
	}
	return entries, nil
}

// PutHistory replaces an identity's history list.
func (r *Repository) PutHistory(ctx context.Context, identityID string, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := r.client.Set(ctx, historyKey(identityID), data, 0).Err(); err != nil {
		return fmt.Errorf("storing history: %w", err)
	}
	return nil
}

// GetScheduled loads an identity's scheduled list; a missing key is an empty list.
func (r *Repository) GetScheduled(ctx context.Context, identityID string) ([]history.ScheduledEntry, error) {
	data, err := r.client.Get(ctx, scheduledKey(identityID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting scheduled messages: %w", err)
	}

	var entries []history.ScheduledEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("unmarshaling scheduled messages: %w", err)
	}
	return entries, nil
}

// PutScheduled replaces an identity's scheduled list.
func (r *Repository) PutScheduled(ctx context.Context, identityID string, entries []history.ScheduledEntry) error {
	if entries == nil {
		entries = []history.ScheduledEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling scheduled messages: %w", err)
	}
	if err := r.client.Set(ctx, scheduledKey(identityID), data, 0).Err(); err != nil {
		return fmt.Errorf("storing scheduled messages: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

func historyKey(identityID string) string {
	return fmt.Sprintf("%s:%s", historyPrefix, identityID)
}

func scheduledKey(identityID string) string {
	return fmt.Sprintf("%s:%s", scheduledPrefix, identityID)
}
