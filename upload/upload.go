package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxBytes is the default upload size cap (8 MiB).
const MaxBytes = 8 * 1024 * 1024

var (
	// ErrNoFile means the request carried no file at all.
	ErrNoFile = errors.New("no file provided")
	// ErrNotImage means the content type is not image/*.
	ErrNotImage = errors.New("file must be an image")
	// ErrTooLarge means the file exceeds the configured size cap.
	ErrTooLarge = errors.New("file exceeds the upload size limit")
)

// Store persists an image and returns the URL it is served from
type Store interface {
	Put(ctx context.Context, name, contentType string, data io.Reader) (string, error)
}

// UseCase defines the image upload operation
type UseCase interface {
	Accept(ctx context.Context, name, contentType string, size int64, data io.Reader) (string, error)
}

/* Service validates an uploaded file before handing it to the store.
 * The image only ever reaches the outbound message as a URL line, so
 * the store's job ends at making the file addressable.
 */
type Service struct {
	Store    Store
	MaxBytes int64
}

// NewService creates an upload service with the given store and size cap.
// A non-positive cap falls back to MaxBytes.
func NewService(store Store, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = MaxBytes
	}
	return &Service{
		Store:    store,
		MaxBytes: maxBytes,
	}
}

// Accept checks the file and stores it, returning its serving URL.
func (s *Service) Accept(ctx context.Context, name, contentType string, size int64, data io.Reader) (string, error) {
	if data == nil {
		return "", ErrNoFile
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}
	if size > s.MaxBytes {
		return "", ErrTooLarge
	}

	// Cap the read as well: the declared size is client-supplied.
	url, err := s.Store.Put(ctx, name, contentType, io.LimitReader(data, s.MaxBytes))
	if err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}
	return url, nil
}
