package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		URL:      os.Getenv("REDIS_URL"),
		CacheTTL: envOrDefaultDuration("DASHBOARD_CACHE_TTL", 30*time.Second),
	}
}

// NewRedisClient returns nil when REDIS_URL is unset; callers treat a nil client as
// "caching disabled".
func NewRedisClient(lc fx.Lifecycle, cfg *RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if cfg.URL == "" {
		logger.Info("REDIS_URL not set, dashboard cache disabled")
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				// The cache is optional, a dead Redis must not stop the server.
				logger.Warn("redis ping failed", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return rdb.Close()
		},
	})
	return rdb, nil
}
