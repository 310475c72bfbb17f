// Package storage provides the snapshot blob backends behind the
// workspace store. The contract is a flat key -> blob mapping with
// last-write-wins semantics; there is no multi-writer coordination.
package storage

import "errors"

var (
	// ErrNotFound is returned by Load when no snapshot exists for the key.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStorageExhausted is returned by Save when the backend rejects the
	// write for capacity reasons. The caller keeps its in-memory state.
	ErrStorageExhausted = errors.New("storage capacity exhausted")
)

// Backend persists opaque snapshot blobs.
type Backend interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Delete(key string) error
}
