package memory

import (
	"context"
	"sync"
)

// Cache is an in-memory ports.MappingCache used by tests and the CLI, where
// no external store is configured.
type Cache struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{values: make(map[string]string)}
}

func (c *Cache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.values[key]
	return val, ok, nil
}

func (c *Cache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}
