package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps images on the local filesystem. The API serves dir under baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory images are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Put writes body to a temp file and renames it into place once fully received.
func (s *LocalStore) Put(ctx context.Context, obj Object, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, obj.Key())); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return s.baseURL + "/" + obj.Key(), nil
}
