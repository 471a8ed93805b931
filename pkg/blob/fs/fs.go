// Package fs provides a filesystem-backed blob store.
//
// Each payload is a regular file under the configured root. Keys are UUIDs,
// so objects are sharded into subdirectories by the first two characters of
// the key to keep directory listings small. Writes go through a temp file and
// an atomic rename, so readers never observe a partially written payload.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/marmos91/dataroom/pkg/blob"
)

// Store is a filesystem implementation of blob.Store.
type Store struct {
	root string

	mu     sync.RWMutex
	closed bool
}

// New creates a filesystem blob store rooted at the given directory, creating
// it if necessary.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("blob store root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob store root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

// pathFor maps a key to its on-disk location: <root>/<key[0:2]>/<key>.
func (s *Store) pathFor(key string) string {
	shard := key
	if len(shard) > 2 {
		shard = key[:2]
	}
	return filepath.Join(s.root, shard, key)
}

func (s *Store) check(ctx context.Context, key string) error {
	if key == "" {
		return blob.ErrEmptyKey
	}
	if strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid blob key %q", key)
	}
	return s.checkStore(ctx)
}

func (s *Store) checkStore(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return blob.ErrStoreClosed
	}
	return nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	path := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create shard directory: %w", err)
	}

	// write-then-rename keeps concurrent readers off half-written files
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for blob %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize blob %s: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.pathFor(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, blob.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, err
	}

	file, err := os.Open(s.pathFor(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, blob.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", key, err)
	}
	return file, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := s.check(ctx, key); err != nil {
		return false, err
	}

	_, err := os.Stat(s.pathFor(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat blob %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) Size(ctx context.Context, key string) (uint64, error) {
	if err := s.check(ctx, key); err != nil {
		return 0, err
	}

	info, err := os.Stat(s.pathFor(key))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, blob.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat blob %s: %w", key, err)
	}
	return uint64(info.Size()), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	err := os.Remove(s.pathFor(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteBatch(ctx context.Context, keys []string) (map[string]error, error) {
	failures := make(map[string]error)
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		if err := s.Delete(ctx, key); err != nil {
			failures[key] = err
		}
	}
	return failures, nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := s.checkStore(ctx); err != nil {
		return nil, err
	}

	var keys []string
	err := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".tmp-") {
			return nil
		}
		keys = append(keys, entry.Name())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk blob store: %w", err)
	}
	return keys, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	keys, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Healthcheck verifies the root directory is still accessible.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := s.checkStore(ctx); err != nil {
		return err
	}

	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("blob store root is not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("blob store root %s is not a directory", s.root)
	}
	return nil
}

// Close marks the store closed. No file descriptors are held between
// operations, so there is nothing else to release.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
