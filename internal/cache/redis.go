package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"tasktrack/internal/config"
	"tasktrack/pkg/logger"
)

// List responses are cached per owner and filter. Every mutation for an owner
// drops all of that owner's keys; cache failures fall through to the store.

var (
	client *redis.Client
	once   sync.Once
)

// Client returns the global Redis client (initialized on first use).
func Client(ctx context.Context) *redis.Client {
	once.Do(func() {
		cfg := config.Get()
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error(ctx, "Invalid REDIS_URL", "error", err, "url", cfg.RedisURL)
			return
		}
		opts.PoolSize = cfg.RedisPoolSize
		client = redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error(ctx, "Redis ping failed", "error", err)
			return
		}
		logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	})
	return client
}

func listKey(userID, filter string) string {
	return "todos:" + userID + ":" + filter
}

// GetRawList reads a cached list response body. Returns (nil, false) on miss
// or error.
func GetRawList(ctx context.Context, userID, filter string) ([]byte, bool) {
	c := Client(ctx)
	if c == nil {
		return nil, false
	}
	b, err := c.Get(ctx, listKey(userID, filter)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get list failed", "error", err)
		return nil, false
	}
	return b, true
}

// SetRawList caches a list response body with the configured TTL.
func SetRawList(ctx context.Context, userID, filter string, body []byte) {
	c := Client(ctx)
	if c == nil {
		return
	}
	ttl := time.Duration(config.Get().CacheTTL) * time.Second
	if err := c.Set(ctx, listKey(userID, filter), body, ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set list failed", "error", err)
	}
}

// InvalidateOwner drops every cached list for the owner so the next read goes
// to the store.
func InvalidateOwner(ctx context.Context, userID string) {
	c := Client(ctx)
	if c == nil {
		return
	}
	iter := c.Scan(ctx, 0, listKey(userID, "*"), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Debug(ctx, "Redis scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.Del(ctx, keys...).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate owner failed", "error", err)
	}
}
