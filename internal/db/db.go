// Package db defines the storage contracts of the embedding cache.
// Implementations live in subpackages.
package db

import (
	"context"
	"time"
)

// KVStore is a byte-oriented key-value map. Values are opaque to the store.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet answers len(keys) entries in key order; absent keys are nil.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetWithTTL expires the entry after ttl.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Pinger reports backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is a connected KVStore with lifecycle management.
type Store interface {
	KVStore
	Pinger
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}
