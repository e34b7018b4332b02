package cache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process. Used when Redis is not reachable and in tests.
type MemoryCache struct {
	cache *cache.Cache
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	if x, found := c.cache.Get(key); found {
		return x.([]byte), true
	}
	return nil, false
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}
