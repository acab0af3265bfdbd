package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests per key with a fixed window (INCR + EXPIRE),
// so the limit holds across processes.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(addr string, limit int, window time.Duration) *RedisLimiter {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Incr(ctx, "ratelimit:"+key).Result()

	if err != nil {
		// fail open when redis is unreachable
		return true, err
	}

	if count == 1 {
		_ = l.client.Expire(ctx, "ratelimit:"+key, l.window).Err()
	}

	return count <= int64(l.limit), nil
}

func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
