// =============================================================================
// PLN Usage Report - Persistence Adapter
// =============================================================================
//
// The persistence mechanism is an opaque key-value string store: get and set,
// last write wins. Two implementations are provided:
//
//   FileStore   : one file per key inside the data directory
//   MemoryStore : map-backed, for tests and dry runs
//
// Writes to a FileStore are atomic: the value is written to a temporary file
// in the same directory and renamed over the target, so a crash never leaves
// a half-written record behind.
//
// =============================================================================

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that cannot be used as file names.
var ErrInvalidKey = errors.New("invalid storage key")

// Store is a key-value string store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore keeps values in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// =============================================================================
// FILE STORE
// =============================================================================

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileStore persists each key as <dir>/<key>.json.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get implements Store.
func (s *FileStore) Get(key string) (string, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", p, err)
	}

	return string(data), true, nil
}

// Set implements Store.
func (s *FileStore) Set(key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp := filepath.Join(s.dir, "."+key+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", p, err)
	}

	return nil
}
