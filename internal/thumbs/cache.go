package thumbs

import (
	"fmt"
	"os"
	"path/filepath"
)

// CachedExtension is appended to every cache key to form the on-disk
// file name.
const CachedExtension = ".jpg"

// Store persists encoded thumbnails under their cache key. Entries are
// immutable once written and are never evicted.
type Store interface {
	Exists(key string) (bool, error)

	// Get returns the full persisted byte sequence for key, or
	// ErrNotCached when no entry exists.
	Get(key string) ([]byte, error)

	// Put persists data under key. Writing the same key again simply
	// replaces the entry atomically.
	Put(key string, data []byte) error
}

// DirStore keeps one file per key in a single flat directory. The file
// itself is both existence marker and payload; there is no index.
type DirStore struct {
	dir string
}

// NewDirStore creates the cache directory if needed and returns a store
// rooted at it. Creating an already existing directory is a no-op.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) entryPath(key string) string {
	return filepath.Join(s.dir, key+CachedExtension)
}

func (s *DirStore) Exists(key string) (bool, error) {
	_, err := os.Stat(s.entryPath(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat cache entry %s: %w", key, err)
}

func (s *DirStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return data, nil
}

// Put writes the entry through a temp file in the same directory and
// renames it into place, so a concurrent reader never observes a
// partially written file.
func (s *DirStore) Put(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "thumb-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for cache entry %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache entry %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), s.entryPath(key)); err != nil {
		return fmt.Errorf("failed to publish cache entry %s: %w", key, err)
	}
	return nil
}
