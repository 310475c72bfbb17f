package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// FileBackend stores each snapshot as one JSON file under a data
// directory. MaxBytes mirrors the quota of the browser storage the
// workspace originally lived in; a zero quota means unlimited.
type FileBackend struct {
	dir      string
	maxBytes int64
}

// NewFileBackend creates the data directory if needed.
func NewFileBackend(dir string, maxBytes int64) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileBackend{dir: dir, maxBytes: maxBytes}, nil
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Load reads the snapshot blob for key.
func (f *FileBackend) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Save overwrites the snapshot blob for key. Writes past the configured
// quota, or rejected by the filesystem for lack of space, surface as
// ErrStorageExhausted so the store can degrade instead of crashing.
func (f *FileBackend) Save(key string, data []byte) error {
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return fmt.Errorf("%w: snapshot is %d bytes, quota is %d", ErrStorageExhausted, len(data), f.maxBytes)
	}

	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			return fmt.Errorf("%w: %v", ErrStorageExhausted, err)
		}
		return err
	}
	return os.Rename(tmp, f.path(key))
}

// Delete removes the snapshot blob for key. Missing blobs are not an error.
func (f *FileBackend) Delete(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
