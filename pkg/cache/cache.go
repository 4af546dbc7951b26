// Package cache stores raw feed responses between runs.
//
// Every backend implements [Cache]. Values are opaque byte slices with a
// per-entry time-to-live:
//
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [MongoCache]: document-store cache for deployments that already run MongoDB
//   - [NullCache]: caching disabled
//
// A cache miss is not an error: Get reports it through its bool result.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get returns the cached value for key. hit is false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live per kind of feed.
const (
	// TTLFeed applies to annotation feeds, which change with database releases.
	TTLFeed = 24 * time.Hour

	// TTLSequence applies to reference sequences.
	TTLSequence = 7 * 24 * time.Hour
)

// Backend names accepted by configuration.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)
