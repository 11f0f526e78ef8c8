package database

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a Store when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Store is a generic key-value persistence backend. Values are opaque JSON
// documents; the typed tables in this package decide their shape.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value stored under key
	Put(ctx context.Context, key string, value []byte) error
}

// Closer is implemented by stores that hold connections.
type Closer interface {
	Close() error
}
