package exchange

import (
	"context"
	"sync"
	"time"
)

// TTLCache holds one value for ttl. The clock is injected so expiry can be
// tested without sleeping.
type TTLCache[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	value     T
	fetchedAt time.Time
	loaded    bool
}

func NewTTLCache[T any](ttl time.Duration, now func() time.Time) *TTLCache[T] {
	if now == nil {
		now = time.Now
	}
	return &TTLCache[T]{ttl: ttl, now: now}
}

// Get returns the cached value while it is fresh, otherwise calls load and
// caches its result. Failed loads are not cached.
func (c *TTLCache[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.value = v
	c.fetchedAt = c.now()
	c.loaded = true
	return v, nil
}

// Invalidate forces the next Get to reload.
func (c *TTLCache[T]) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}
