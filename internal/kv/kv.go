package kv

// Package kv contains the string-keyed persistence substrate behind the local
// store backend. Each key holds one serialized collection. Implementations
// must be safe for concurrent use; the substrate itself is last-write-wins
// with no conflict detection.

import (
	"context"
	"errors"
)

// ErrNoKey is returned by Get when the key has never been written.
var ErrNoKey = errors.New("kv: key not found")

// Store is a minimal string-keyed store. Values are opaque serialized text.
type Store interface {
	// Get returns the value stored under key, or ErrNoKey.
	Get(ctx context.Context, key string) (string, error)
	// Set writes the value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value string) error
	// Ping verifies the substrate is reachable.
	Ping(ctx context.Context) error
	// Close releases any underlying resources.
	Close() error
}
