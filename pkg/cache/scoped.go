package cache

import (
	"context"
	"time"
)

// Scoped prefixes every key before delegating to an inner cache. It keeps
// several servers (or schema versions) apart inside one shared backend.
//
//	c := cache.NewScoped(redisCache, "shinier:v1:")
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped wraps inner so that all keys carry prefix. A nil inner is
// replaced by a [NullCache].
func NewScoped(inner Cache, prefix string) *Scoped {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves prefix+key from the inner cache.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores data under prefix+key.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes prefix+key.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the inner cache.
func (s *Scoped) Close() error { return s.inner.Close() }

var _ Cache = (*Scoped)(nil)
