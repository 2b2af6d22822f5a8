package cache

import (
	"context"
	"time"
)

// LayeredCache implements a two-level cache (L1: Memory, L2: Redis). Redis is
// optional; with no L2 the layered cache degrades to memory only.
type LayeredCache struct {
	memCache   *MemoryCache
	redisCache *RedisCache
}

// NewLayeredCache creates a layered cache with memory and optional Redis.
func NewLayeredCache(redisCache *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{
		memCache:   NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		redisCache: redisCache,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	// Write-through: Redis first, then memory
	if lc.redisCache != nil {
		if err := lc.redisCache.Set(ctx, key, value, expiration); err != nil {
			return err
		}
	}
	return lc.memCache.Set(ctx, key, value, expiration)
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	// L1: Try memory first
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}

	if lc.redisCache == nil {
		return ErrCacheMiss
	}

	// L2: Try Redis
	if err := lc.redisCache.Get(ctx, key, dest); err != nil {
		return err
	}

	// Store in memory for next time
	_ = lc.memCache.Set(ctx, key, dest, 0)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	if lc.redisCache != nil {
		return lc.redisCache.Delete(ctx, keys...)
	}
	return nil
}

// Close releases both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	if lc.redisCache != nil {
		return lc.redisCache.Close()
	}
	return nil
}
