package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

/* Store writes uploads to a local directory served under BaseURL.
 * Filenames are uuids so client-supplied names never touch the
 * filesystem; only the original extension is kept.
 */
type Store struct {
	Dir     string
	BaseURL string
}

// NewStore creates a filesystem store rooted at dir, served at baseURL.
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{
		Dir:     dir,
		BaseURL: baseURL,
	}, nil
}

// Put writes the file and returns the URL it is served from.
func (s *Store) Put(ctx context.Context, name, contentType string, data io.Reader) (string, error) {
	filename := uuid.New().String() + filepath.Ext(name)

	f, err := os.Create(filepath.Join(s.Dir, filename))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("writing upload file: %w", err)
	}

	return path.Join(s.BaseURL, filename), nil
}
