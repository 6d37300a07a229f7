package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Cache is an in-process TTL map for single-instance deployments and tests.
// Expired entries are dropped lazily on read; there is no bounded-memory
// eviction because entries expire on their own.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry), now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// re-check under the write lock; a Put may have raced the expiry
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (c *Cache) Put(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	c.mu.Lock()
	c.entries[key] = entry{payload: buf, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Ping(context.Context) error { return nil }

func (c *Cache) Close() error { return nil }
