package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, rate, burst float64) *Limiter {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	return New(rdb, "test:ratelimit:", rate, burst)
}

func TestLimiter_BurstExhaustion(t *testing.T) {
	limiter := newTestLimiter(t, 0.001, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}

	ok, err := limiter.Allow(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("allow after burst: %v", err)
	}
	if ok {
		t.Fatalf("expected request beyond burst to be denied")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter := newTestLimiter(t, 0.001, 1)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "a@example.com")
	if err != nil || !ok {
		t.Fatalf("first key first call: ok=%v err=%v", ok, err)
	}
	ok, err = limiter.Allow(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("first key second call: %v", err)
	}
	if ok {
		t.Fatalf("expected first key to be exhausted")
	}

	ok, err = limiter.Allow(ctx, "b@example.com")
	if err != nil || !ok {
		t.Fatalf("second key should have its own bucket: ok=%v err=%v", ok, err)
	}
}

func TestLimiter_DisabledAlwaysAllows(t *testing.T) {
	limiter := newTestLimiter(t, 0, 0)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ok, err := limiter.Allow(ctx, "anyone")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("disabled limiter must allow everything")
		}
	}
}

func TestLimiter_NilAllows(t *testing.T) {
	var limiter *Limiter
	ok, err := limiter.Allow(context.Background(), "anyone")
	if err != nil {
		t.Fatalf("nil limiter: %v", err)
	}
	if !ok {
		t.Fatalf("nil limiter must allow")
	}
}
