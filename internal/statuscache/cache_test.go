package statuscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/door2fy/onboarding-portal/internal/logging"
	"github.com/door2fy/onboarding-portal/internal/onboarding"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, 15*time.Second, logging.Discard()), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "sess-1"); ok {
		t.Fatalf("empty cache should miss")
	}

	snap := onboarding.StatusSnapshot{
		ProfileStatus: onboarding.StatusCompleted,
		KYCStatus:     onboarding.StatusPending,
		BankStatus:    onboarding.StatusPending,
		OverallStatus: onboarding.StatusPendingReview,
	}
	cache.Put(ctx, "sess-1", snap)

	got, ok := cache.Get(ctx, "sess-1")
	if !ok {
		t.Fatalf("expected a hit after put")
	}
	if *got != snap {
		t.Fatalf("expected %+v, got %+v", snap, *got)
	}

	// Another session must not see the entry.
	if _, ok := cache.Get(ctx, "sess-2"); ok {
		t.Fatalf("cache entries must be scoped per session")
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Put(ctx, "sess-1", onboarding.StatusSnapshot{ProfileStatus: onboarding.StatusPending})
	cache.Invalidate(ctx, "sess-1")
	if _, ok := cache.Get(ctx, "sess-1"); ok {
		t.Fatalf("invalidated entry should miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Put(ctx, "sess-1", onboarding.StatusSnapshot{ProfileStatus: onboarding.StatusPending})
	mr.FastForward(16 * time.Second)
	if _, ok := cache.Get(ctx, "sess-1"); ok {
		t.Fatalf("entry should expire with the ttl")
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	cache.Put(ctx, "sess-1", onboarding.StatusSnapshot{})
	cache.Invalidate(ctx, "sess-1")
	if _, ok := cache.Get(ctx, "sess-1"); ok {
		t.Fatalf("nil cache should always miss")
	}

	disabled := New(nil, time.Second, logging.Discard())
	disabled.Put(ctx, "sess-1", onboarding.StatusSnapshot{})
	if _, ok := disabled.Get(ctx, "sess-1"); ok {
		t.Fatalf("cache without a client should always miss")
	}
}
