// Package ratelimit implements a fixed one-minute window counter over an expiring key-value
// store. Read-then-write is not atomic, so bursts at a window edge may exceed the limit
// slightly.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/de-tools/relationship-roi/pkg/store/kv"
)

const (
	DefaultLimit = 5
	Window       = time.Minute
	keyTTL       = 120 * time.Second
	tokenPrefix  = 8
)

type Result struct {
	Allowed   bool
	Remaining int
}

type Limiter struct {
	store kv.Store
	limit int
	now   func() time.Time
}

// New returns a limiter. A nil store allows every request.
func New(store kv.Store, limit int) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Limiter{store: store, limit: limit, now: time.Now}
}

// Key is rate:{ip}:{first 8 token chars or anon}:{minute bucket}.
func Key(ip, token string, now time.Time) string {
	prefix := token
	if len(prefix) > tokenPrefix {
		prefix = prefix[:tokenPrefix]
	}
	if prefix == "" {
		prefix = "anon"
	}
	return fmt.Sprintf("rate:%s:%s:%d", ip, prefix, now.UnixMilli()/Window.Milliseconds())
}

func (l *Limiter) Allow(ctx context.Context, ip, token string) (Result, error) {
	if l.store == nil {
		return Result{Allowed: true, Remaining: l.limit}, nil
	}

	key := Key(ip, token, l.now())
	value, _, err := l.store.Get(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read rate counter: %w", err)
	}
	count, _ := strconv.Atoi(value)
	if count >= l.limit {
		return Result{Allowed: false, Remaining: 0}, nil
	}

	if err := l.store.Put(ctx, key, strconv.Itoa(count+1), keyTTL); err != nil {
		return Result{}, fmt.Errorf("failed to write rate counter: %w", err)
	}
	return Result{Allowed: true, Remaining: l.limit - count - 1}, nil
}
