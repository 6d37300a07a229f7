package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache memoizes fully composed responses as opaque payloads with a bounded
// time-to-live. A miss is never an error; entries become visible only once
// fully written.
type Cache interface {
	// Get returns the payload stored under key, with false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores payload under key for ttl.
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Ping probes store reachability for health checks.
	Ping(ctx context.Context) error

	Close() error
}

// Key derives the cache key for one (user, result size) lookup. The size is
// part of the key so differing requested sizes never collide.
func Key(userID string, k int) string {
	return fmt.Sprintf("rec:%s:%d", userID, k)
}
