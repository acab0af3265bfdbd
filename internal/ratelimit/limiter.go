package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter answers whether one more request is allowed for a key within the
// current window. Implementations: in-process map, redis.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type MemoryLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	limit     int
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]

	if !ok || now.After(b.windowEnd) {
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(l.window)}
		return true, nil
	}

	if b.count >= l.limit {
		return false, nil
	}

	b.count++

	return true, nil
}

// sweep drops expired buckets at most once per window, so the map does not
// grow with every distinct key ever seen. Caller holds the lock.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}

	for key, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, key)
		}
	}

	l.lastSweep = now
}
