// Package cache stores rendered artifacts so unchanged diagrams are not
// rendered twice.
//
// Three backends implement [Cache]:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for server deployments
//
// Keys come from a [Keyer]. The default keyer hashes the diagram state
// together with the render options, so any change to a point, a color, or
// an option yields a new key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
