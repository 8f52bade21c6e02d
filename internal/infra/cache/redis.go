// Package cache holds the redis client and the rendered page cache. A nil
// client disables caching; callers fall through to the database.
package cache

import (
	"context"
	"crypto/tls"
	"time"

	"pulse/config"
	"pulse/internal/infra/logger"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings redis. It returns nil when the server
// cannot be reached so the service keeps running without cache and rate limits.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis unavailable, cache and rate limiting disabled", "addr", cfg.Addr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", "addr", cfg.Addr)
	return client
}
