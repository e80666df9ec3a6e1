package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ErrInvalidSchedule means the requested dispatch time is not in the future.
var ErrInvalidSchedule = errors.New("scheduled time must be in the future")

// UseCase defines the business operations for per-identity message storage
type UseCase interface {
	AppendHistory(ctx context.Context, identityID string, entry Entry) (Entry, error)
	ListHistory(ctx context.Context, identityID string) ([]Entry, error)
	DeleteHistory(ctx context.Context, identityID, entryID string) error
	AppendScheduled(ctx context.Context, identityID string, entry ScheduledEntry) (ScheduledEntry, error)
	ListScheduled(ctx context.Context, identityID string) ([]ScheduledEntry, error)
	DeleteScheduled(ctx context.Context, identityID, entryID string) error
}

/* Service is the business logic layer over the repository.
 * Now is injectable so schedule validation and entry timestamps are
 * testable; it defaults to time.Now.
 */
type Service struct {
	Repo Repository
	Now  func() time.Time
}

// NewService creates a history service with dependency injection
func NewService(repo Repository) *Service {
	return &Service{
		Repo: repo,
		Now:  time.Now,
	}
}

// AppendHistory assigns an id and timestamp, prepends the entry and
// truncates the identity's list to the newest MaxEntries.
func (s *Service) AppendHistory(ctx context.Context, identityID string, entry Entry) (Entry, error) {
	entries, err := s.Repo.GetHistory(ctx, identityID)
	if err != nil {
		return Entry{}, fmt.Errorf("loading history: %w", err)
	}

	now := s.Now()
	entry.ID = newID(now)
	entry.Timestamp = now

	entries = append([]Entry{entry}, entries...)
	if len(entries) > MaxEntries {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		})
		entries = entries[:MaxEntries]
	}

	if err := s.Repo.PutHistory(ctx, identityID, entries); err != nil {
		return Entry{}, fmt.Errorf("storing history: %w", err)
	}
	return entry, nil
}

// ListHistory returns the identity's entries, newest first.
func (s *Service) ListHistory(ctx context.Context, identityID string) ([]Entry, error) {
	entries, err := s.Repo.GetHistory(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// DeleteHistory removes exactly one entry if present; absent ids are a no-op.
func (s *Service) DeleteHistory(ctx context.Context, identityID, entryID string) error {
	entries, err := s.Repo.GetHistory(ctx, identityID)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}

	if err := s.Repo.PutHistory(ctx, identityID, kept); err != nil {
		return fmt.Errorf("storing history: %w", err)
	}
	return nil
}

// AppendScheduled assigns an id and persists the entry. The dispatch
// time must be strictly in the future at call time.
func (s *Service) AppendScheduled(ctx context.Context, identityID string, entry ScheduledEntry) (ScheduledEntry, error) {
	now := s.Now()
	if !entry.ScheduledFor.After(now) {
		return ScheduledEntry{}, ErrInvalidSchedule
	}

	entries, err := s.Repo.GetScheduled(ctx, identityID)
	if err != nil {
		return ScheduledEntry{}, fmt.Errorf("loading scheduled messages: %w", err)
	}

	entry.ID = newID(now)
	entries = append(entries, entry)

	if err := s.Repo.PutScheduled(ctx, identityID, entries); err != nil {
		return ScheduledEntry{}, fmt.Errorf("storing scheduled messages: %w", err)
	}
	return entry, nil
}

// ListScheduled returns the identity's scheduled entries, soonest first.
func (s *Service) ListScheduled(ctx context.Context, identityID string) ([]ScheduledEntry, error) {
	entries, err := s.Repo.GetScheduled(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("loading scheduled messages: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ScheduledFor.Before(entries[j].ScheduledFor)
	})
	return entries, nil
}

// DeleteScheduled removes exactly one entry if present; absent ids are a no-op.
func (s *Service) DeleteScheduled(ctx context.Context, identityID, entryID string) error {
	entries, err := s.Repo.GetScheduled(ctx, identityID)
	if err != nil {
		return fmt.Errorf("loading scheduled messages: %w", err)
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}

	if err := s.Repo.PutScheduled(ctx, identityID, kept); err != nil {
		return fmt.Errorf("storing scheduled messages: %w", err)
	}
	return nil
}

// newID derives a sortable, time-based entry id.
func newID(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 10)
}
