package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"recgate/internal/domain"
)

// Cache stores serialized responses in a shared Redis, relying on Redis's own
// key expiry for the TTL contract.
type Cache struct {
	rdb *goredis.Client
}

func New(addr string, db int) *Cache {
	return &Cache{rdb: goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
	})}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, domain.StoreUnavailable("redis", err)
	}
	return payload, true, nil
}

func (c *Cache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		return domain.StoreUnavailable("redis", err)
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return domain.StoreUnavailable("redis", err)
	}
	return nil
}

func (c *Cache) Close() error { return c.rdb.Close() }
