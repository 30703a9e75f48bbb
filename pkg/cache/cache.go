// Package cache provides pluggable byte caches for rendered artifacts.
//
// A render is fully determined by its inputs (document, options,
// format), so cache keys are content hashes and entries never need
// invalidation beyond TTL expiry. Three backends are provided:
//
//   - FileCache: directory-based, for CLI usage
//   - RedisCache: shared cache for the render server
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts keyed by content hash.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL stores the
	// entry without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
