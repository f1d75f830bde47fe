package botvac

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore persists session tokens between runs. Implementations
// return ErrTokenNotFound when no token exists for a key.
type TokenStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// FileStore keeps one JSON token file per key under a directory.
// Files are written 0600; tokens are credentials.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("read token: %w", err)
	}
	return data, nil
}

func (s *FileStore) Save(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir token dir: %w", err)
	}
	return os.WriteFile(s.path(key), data, 0o600)
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
