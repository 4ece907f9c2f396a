package scorecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"msp_portal_backend/internal/scoring"
)

func ptr[T any](v T) *T { return &v }

func testCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, ttl), mr
}

func sampleResult() scoring.ScoreResult {
	return scoring.ScoreResult{
		HealthScore: ptr(81.1),
		Churn: &scoring.Prediction{
			Probability: 0.25,
			RiskLevel:   scoring.RiskLow,
		},
	}
}

func TestSetThenGetReturnsStoredResult(t *testing.T) {
	cache, _ := testCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Set(ctx, "ACME-001", sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := cache.Get(ctx, "ACME-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a cache hit")
	}
	if got.HealthScore == nil || *got.HealthScore != 81.1 {
		t.Fatalf("health score not preserved: %+v", got.HealthScore)
	}
	if got.Churn == nil || got.Churn.RiskLevel != scoring.RiskLow {
		t.Fatalf("churn prediction not preserved: %+v", got.Churn)
	}
}

func TestGetMissReturnsNilWithoutError(t *testing.T) {
	cache, _ := testCache(t, time.Hour)

	got, err := cache.Get(context.Background(), "UNKNOWN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected a miss, got %+v", got)
	}
}

func TestGetTreatsCorruptEntryAsMiss(t *testing.T) {
	cache, mr := testCache(t, time.Hour)
	mr.Set("score:ACME-001", "{not json")

	got, err := cache.Get(context.Background(), "ACME-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected a corrupt entry to read as a miss, got %+v", got)
	}
}

func TestInvalidateRemovesEntry(t *testing.T) {
	cache, _ := testCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Set(ctx, "ACME-001", sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cache.Invalidate(ctx, "ACME-001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := cache.Get(ctx, "ACME-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected entry to be gone after invalidation")
	}
}

func TestEntriesExpireAfterTTL(t *testing.T) {
	cache, mr := testCache(t, time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "ACME-001", sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "ACME-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected entry to expire, got %+v", got)
	}
}

func TestNilCacheIsNoOp(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	if err := cache.Set(ctx, "ACME-001", sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := cache.Get(ctx, "ACME-001")
	if err != nil || got != nil {
		t.Fatalf("expected nil cache to miss silently, got %+v, %v", got, err)
	}
	if err := cache.Invalidate(ctx, "ACME-001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
