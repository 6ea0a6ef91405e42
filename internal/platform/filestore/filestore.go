package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
)

// Store is the blob interface for avatars and message attachments. The disk
// implementation keys blobs by a relative path under a configured root.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type diskStore struct {
	root string
	log  *logger.Logger
}

func NewDiskStore(root string, log *logger.Logger) (Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("file store root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create file store root: %w", err)
	}
	return &diskStore{root: root, log: log.With("component", "DiskStore")}, nil
}

func (s *diskStore) path(key string) (string, error) {
	key = filepath.Clean("/" + key)[1:] // no escaping the root
	if key == "" {
		return "", fmt.Errorf("empty file key")
	}
	return filepath.Join(s.root, key), nil
}

func (s *diskStore) Put(ctx context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *diskStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s *diskStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
