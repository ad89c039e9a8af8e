package cache

import (
	"context"
	"testing"
	"time"

	"TapaalTracker/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestDisabledCacheNeverHits(t *testing.T) {
	c := NewCache(nil, &config.RedisConfig{CacheTTL: time.Minute}, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, "k", map[string]int{"a": 1})
	var out map[string]int
	if c.Get(ctx, "k", &out) {
		t.Error("disabled cache reported a hit")
	}
	c.Delete(ctx, "k")

	var nilCache *Cache
	if nilCache.Enabled() {
		t.Error("nil cache reported enabled")
	}
}

func TestUnreachableRedisIsAMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	c := NewCache(rdb, &config.RedisConfig{CacheTTL: time.Minute}, zap.NewNop())

	ctx := context.Background()
	c.Set(ctx, "stats", 1)
	var n int
	if c.Get(ctx, "stats", &n) {
		t.Error("unreachable redis reported a hit")
	}
}
