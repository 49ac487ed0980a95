// Package cache provides byte-oriented caches for built graphs and
// inspection results.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: never stores anything
//
// [NewScoped] prefixes every key so that several deployments can share one
// Redis instance.
//
// # Keys
//
// [GraphKey] and [InspectKey] derive keys from the request parameters. They
// hash their inputs, so keys have a fixed length regardless of path length.
//
// Entries expire after the TTL given to Set. Filesystem changes are not
// tracked, so the TTL bounds how stale a cached graph can be.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. The boolean reports whether the key
	// was present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
