package storage

import "errors"

var (
	// ErrNotFound is returned by Get when no value is stored under the key
	ErrNotFound = errors.New("key not found")
	// ErrNotLoaded is returned when a provider is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is a byte-blob store addressed by key. Backends own their
// lifecycle; callers pick the encoding.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Blobs
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error

	// Utils
	GetConfigPath() string
}
