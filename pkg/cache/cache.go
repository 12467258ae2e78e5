// Package cache stores fetched hierarchies and rendered diagrams.
//
// # Overview
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry TTLs:
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: hash-sharded JSON files under the user cache directory
//   - [RedisCache]: a shared Redis instance for the HTTP service
//
// Keys are produced by a [Keyer] so every layer agrees on the format.
// [ScopedKeyer] prefixes keys per credential, because the host filters
// hierarchies by the caller's permissions.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	TTLTree    = 10 * time.Minute
	TTLDiagram = 24 * time.Hour
)

// Cache is a key/value store for serialized entries.
type Cache interface {
	// Get returns the stored bytes and true on a hit. An expired or
	// unreadable entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero keeps the entry until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes an entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
