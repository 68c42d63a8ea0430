package rediscache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Cache is a Redis-backed ports.MappingCache. Keys are namespaced under a
// prefix so multiple deployments can share one Redis.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache wraps a Redis client. An empty prefix defaults to "pilemap:mapping".
func NewCache(client *redis.Client, prefix string) *Cache {
	if prefix == "" {
		prefix = "pilemap:mapping"
	}
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(key string) string {
	return c.prefix + ":" + key
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, c.key(key), value, 0).Err()
}
