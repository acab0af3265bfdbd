package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/calloway/itemvault/internal/ratelimit"
)

func TestMemoryLimiterDeniesOverLimit(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")

		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}

		if !ok {
			t.Fatalf("request %d denied under the limit", i)
		}
	}

	ok, err := l.Allow(ctx, "1.2.3.4")

	if err != nil {
		t.Fatalf("allow: %v", err)
	}

	if ok {
		t.Fatal("request over the limit was allowed")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatal("first key denied")
	}

	if ok, _ := l.Allow(ctx, "1.2.3.4"); ok {
		t.Fatal("first key not exhausted")
	}

	if ok, _ := l.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatal("second key throttled by the first")
	}
}

func TestMemoryLimiterWindowResets(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(1, 20*time.Millisecond)
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatal("first request denied")
	}

	if ok, _ := l.Allow(ctx, "1.2.3.4"); ok {
		t.Fatal("second request allowed inside the window")
	}

	time.Sleep(30 * time.Millisecond)

	if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatal("request denied after the window expired")
	}
}
