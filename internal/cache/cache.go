package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the backend-agnostic cache contract. Implementations must be safe
// for concurrent use. Callers treat any non-miss error as a miss and keep
// going; the cache never gets to fail a request.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Incr bumps an integer counter (used for list-generation invalidation)
	// and returns the new value. Counters do not expire.
	Incr(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
}
