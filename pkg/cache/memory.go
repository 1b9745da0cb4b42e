package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a cache with a default expiration time of 1 hour, and which
// purges expired items every 10 minutes
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(1*time.Hour, 10*time.Minute),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	if x, found := c.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (c *MemoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}
