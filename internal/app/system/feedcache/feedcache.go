// Package feedcache caches rendered feed pages in Redis.
//
// Every cache key embeds a version counter. Mutations bump the counter
// with a single INCR, which instantly orphans every cached page without
// scanning or deleting keys; orphans age out through the TTL. Redis
// failures fail open: a broken cache degrades to querying Mongo, never
// to a broken feed.
package feedcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const versionKey = "feed:version"

// Cache wraps a Redis client with versioned feed-page storage.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// New creates a feed cache. A nil client disables caching entirely.
func New(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

// Key builds the versioned cache key for one combination of feed
// parameters.
func (c *Cache) Key(ctx context.Context, itemType, search string, page, limit int) string {
	version := int64(0)
	if c.Enabled() {
		v, err := c.rdb.Get(ctx, versionKey).Int64()
		if err == nil {
			version = v
		}
	}
	return fmt.Sprintf("feed:v%d:t=%s:q=%s:p=%d:l=%d", version, itemType, search, page, limit)
}

// Get loads a cached page into out. The bool reports a hit.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && c.log != nil {
			c.log.Warn("feed cache read failed", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		if c.log != nil {
			c.log.Warn("feed cache entry corrupt", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

// Set stores a page under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if !c.Enabled() {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.log != nil {
		c.log.Warn("feed cache write failed", zap.Error(err))
	}
}

// Invalidate bumps the version counter once, orphaning every cached
// page. Called after any post mutation.
func (c *Cache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, versionKey).Err(); err != nil && c.log != nil {
		c.log.Warn("feed cache invalidation failed", zap.Error(err))
	}
}
