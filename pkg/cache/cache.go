// Package cache stores rendered artifacts and decoded tables between runs.
//
// Every backend implements [Cache], a byte-oriented key/value store with
// per-entry expiry:
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the HTTP server
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing, for --no-cache
//
// [Open] picks a backend from a URL. Keys are built by a [Keyer] so that
// the CLI and the server agree on them; [ScopedKeyer] prefixes keys per
// tenant.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized pipeline results.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and
	// unexpired. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Default lifetimes of cached entries.
const (
	TTLTable    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
