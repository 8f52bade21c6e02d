package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulse/config"
	"pulse/internal/infra/logger"

	"github.com/redis/go-redis/v9"
)

// PageCache stores rendered public pages. Keys include the page's last
// update time, so any edit makes earlier entries unreachable.
type PageCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewPageCache returns nil when caching is disabled or redis is unavailable.
// All methods are safe on a nil receiver.
func NewPageCache(cfg config.PageCacheConfig, rdb *redis.Client) *PageCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &PageCache{rdb: rdb, ttl: cfg.TTL, prefix: cfg.Prefix}
}

func (c *PageCache) Key(pageID string, updatedAt time.Time, watermark bool) string {
	prefix := config.PageCache.Prefix
	if c != nil {
		prefix = c.prefix
	}
	return fmt.Sprintf("%s:%s:%d:%t", prefix, pageID, updatedAt.UnixNano(), watermark)
}

func (c *PageCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	body, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error("page cache read failed", "key", key, "error", err)
		}
		return "", false
	}
	return body, true
}

func (c *PageCache) Set(ctx context.Context, key, body string) {
	if c == nil {
		return
	}
	if err := c.rdb.SetEx(ctx, key, body, c.ttl).Err(); err != nil {
		logger.Error("page cache write failed", "key", key, "error", err)
	}
}
