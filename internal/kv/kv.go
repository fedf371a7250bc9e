// Package kv provides the key-value store abstraction that backs usage
// counters, license records, and rate-limit windows. All entitlement
// state lives here; the process itself holds no durable state.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the backing store could not be reached or
// returned a transport-level failure. Callers must not treat it as "key
// absent": entitlement checks fail closed on it, best-effort analytics
// writes log and move on.
var ErrUnavailable = errors.New("kv: store unavailable")

// Store is the contract the repositories are written against.
// Implementations must provide atomic increment semantics; usage
// metering relies on that atomicity to avoid lost updates under
// concurrent requests for the same identifier.
type Store interface {
	// Get returns the value for key, with found=false when absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes value under key with no expiry.
	Set(ctx context.Context, key, value string) error

	// SetNX writes value under key only if the key does not exist,
	// reporting whether the write happened. A zero ttl means no expiry.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// IncrBy atomically increments the integer at key by delta, creating
	// it at delta when absent, and returns the new value.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	// Expire attaches a ttl to an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Del removes key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error

	// TTL returns the remaining time to live for key. A negative duration
	// means the key has no expiry or does not exist.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Ping verifies the store is reachable. Used by readiness probes.
	Ping(ctx context.Context) error
}
