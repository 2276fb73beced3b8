// Package tracker holds the client-side pieces of metrics collection: a
// durable anonymous identity, a time-windowed session, and a best-effort
// event emitter.
package tracker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned by a Store when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is the durable key/value capability the tracker writes its state
// through. Values are opaque strings.
type Store interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

// FileStore keeps each key as a file under a base directory. Every Put
// rewrites the whole file, so a record is always either the old pair or the
// new pair, never a mix. Writes within one process are serialized by a
// mutex; concurrent writers in separate processes race with last write
// wins, which is a known gap for multi-instance clients.
type FileStore struct {
	basePath string
	mu       sync.Mutex
}

func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (fs *FileStore) Get(key string) (string, error) {
	path, err := fs.keyPath(key)
	if err != nil {
		return "", err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

func (fs *FileStore) Put(key, value string) error {
	path, err := fs.keyPath(key)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (fs *FileStore) keyPath(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean != key || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key")
	}
	return filepath.Join(fs.basePath, clean), nil
}
