// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when a key is absent or expired.
// A miss is distinct from a stored empty value.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache defines the interface for cache operations.
// Implementations can be Redis, SQLite, in-memory, or any other backend.
//
// Expiry is checked at read time; lazy eviction is acceptable. Writes to a
// single key must be serialized by the implementation, and values returned
// from Get must be treated as read-only by callers since the same entry may
// be shared with other readers.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte, or ErrCacheMiss if the key is
	// absent or past its expiry.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an expiry of now + ttl, overwriting any
	// prior entry for that key. If ttl is 0, the value never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value unconditionally.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}
