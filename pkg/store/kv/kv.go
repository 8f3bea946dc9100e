// Package kv provides expiring key-value stores used for rate limiting and payment
// idempotency.
package kv

import (
	"context"
	"time"
)

// Store is a string key-value store with per-key expiry. Get reports ok=false for missing
// and expired keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}

// Purger removes expired keys and returns how many were removed.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}
