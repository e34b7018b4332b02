package cache

import (
	"context"
	"errors"
	"time"

	"interview-prep-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	rdb    *redis.Client
	logger logger.ILogger
}

func NewRedisCache(rdb *redis.Client, log logger.ILogger) *RedisCache {
	return &RedisCache{rdb: rdb, logger: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache", "Redis get failed", map[string]interface{}{"key": key, "error": err})
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("Cache", "Redis set failed", map[string]interface{}{"key": key, "error": err})
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Cache", "Redis delete failed", map[string]interface{}{"keys": keys, "error": err})
	}
}
