package tasks

import (
	"context"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
)

// SnapshotCacheRedis caches snapshots in redis so multiple instances share
// the same view of a user's last loaded state
type SnapshotCacheRedis struct {
	Cache *cache.Cache
}

// NewSnapshotCacheRedis initializes a new SnapshotCacheRedis
func NewSnapshotCacheRedis(redisClient *redis.Client) *SnapshotCacheRedis {
	redisCache := cache.New(&cache.Options{
		Redis: redisClient,
	})

	return &SnapshotCacheRedis{
		Cache: redisCache,
	}
}

// Add adds a snapshot to the cache
func (c *SnapshotCacheRedis) Add(ctx context.Context, key string, entry *ScheduleSnapshot) error {
	return c.Cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: entry,
		TTL:   time.Minute * 10,
	})
}

// Invalidate removes a snapshot from the cache
func (c *SnapshotCacheRedis) Invalidate(ctx context.Context, key string) error {
	err := c.Cache.Delete(ctx, key)
	if err != nil && err != cache.ErrCacheMiss {
		return err
	}

	return nil
}

// Get retrieves a snapshot from the cache
func (c *SnapshotCacheRedis) Get(ctx context.Context, key string) (*ScheduleSnapshot, error) {
	result := ScheduleSnapshot{}
	err := c.Cache.Get(ctx, key, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
