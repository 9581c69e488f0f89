// Package cache provides the optional lookup-result cache used by the
// telguarder client. The only implementation is Redis-backed; the interface
// exists so embedding applications can substitute their own store.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized lookup results with a TTL. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get retrieves a raw value by key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// GetJSON retrieves and unmarshals JSON data into dest.
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON marshals value and stores it with the given TTL.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Close releases the underlying connection pool.
	Close() error
}

// LookupKeyPrefix namespaces cached lookup results.
const LookupKeyPrefix = "telguarder:lookup:"

// LookupKey builds the cache key for an E.164 number.
func LookupKey(e164 string) string {
	return LookupKeyPrefix + e164
}

// DefaultTTL is how long a cached lookup result stays fresh unless the client
// is configured otherwise. Reputation data changes slowly.
const DefaultTTL = 6 * time.Hour

// ErrKeyNotFound is returned when a key does not exist.
type ErrKeyNotFound struct {
	Key string
}

func (e ErrKeyNotFound) Error() string {
	return "cache key not found: " + e.Key
}
