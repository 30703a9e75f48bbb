package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache with a key prefix for namespace isolation, e.g.
// separating per-tenant artifacts on a shared Redis instance.
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a cache view that prepends prefix to every key.
func NewScoped(inner Cache, prefix string) Cache {
	return &Scoped{inner: inner, prefix: prefix}
}

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the underlying cache.
func (s *Scoped) Close() error {
	return s.inner.Close()
}

var _ Cache = (*Scoped)(nil)
