package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the limiter with a shared Redis instance so counters
// stay correct across workers and machines.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore initializes a counter store on the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Incr increments the counter and sets its expiry in one round trip. The
// expiry is padded past the window so the key outlives any in-flight check
// racing the window boundary; window bucketing lives in the key itself.
func (s *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment redis counter: %w", err)
	}
	return incr.Val(), nil
}
