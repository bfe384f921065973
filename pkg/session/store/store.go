package store

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when no record exists for a key.
var ErrKeyNotFound = errors.New("key not found")

// ErrStoreUnavailable is returned when the backing store is unreachable or an
// operation timed out after the configured retries. Callers detect it with
// errors.Is and surface a retry message to the user.
var ErrStoreUnavailable = errors.New("session store unavailable")

// KVStore defines the interface for raw session record storage
type KVStore interface {
	// Get retrieves the record stored under key
	Get(ctx context.Context, key string) ([]byte, error)

	// SetWithTTL stores the record under key and resets its idle expiration
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the record stored under key, if any
	Delete(ctx context.Context, key string) error

	// Close closes the store
	Close() error
}
