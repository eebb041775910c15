package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const countKeyPrefix = "event:regcount:"

// CountCache is a Redis read-through cache for per-event registration
// counts, which dashboards hit far more often than they change.
//
// All methods are safe on a nil receiver: with no Redis configured the
// cache degrades to a no-op and callers fall straight through to Postgres.
type CountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCountCache constructs a CountCache over an existing Redis client.
func NewCountCache(client *redis.Client, ttl time.Duration) *CountCache {
	return &CountCache{client: client, ttl: ttl}
}

// Get returns the cached count for an event. ok is false on miss, on any
// Redis error, and on a nil cache.
func (c *CountCache) Get(ctx context.Context, eventID string) (count int, ok bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, countKeyPrefix+eventID).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Set stores the count for an event. Errors are ignored: the cache is an
// optimization, never the source of truth.
func (c *CountCache) Set(ctx context.Context, eventID string, count int) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, countKeyPrefix+eventID, strconv.Itoa(count), c.ttl)
}

// Invalidate drops the cached count after any write that changes it
// (register, cancel, event delete).
func (c *CountCache) Invalidate(ctx context.Context, eventID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, countKeyPrefix+eventID)
}
