package repository

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/bulletform/bulletform-api/internal/kv"
)

func TestKVUsageRepository_CountMatchesIncrements(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewKVUsageRepository(store, slog.Default())
	ctx := context.Background()

	count, err := repo.GetCount(ctx, "203.0.113.7")
	if err != nil {
		t.Fatalf("GetCount: %v", err)
	}
	if count != 0 {
		t.Errorf("initial count = %d, want 0", count)
	}

	const n = 5
	for i := 1; i <= n; i++ {
		got, err := repo.Increment(ctx, "203.0.113.7", false)
		if err != nil {
			t.Fatalf("Increment %d: %v", i, err)
		}
		if got != int64(i) {
			t.Errorf("Increment %d = %d, want %d", i, got, i)
		}
	}

	count, err = repo.GetCount(ctx, "203.0.113.7")
	if err != nil {
		t.Fatalf("GetCount: %v", err)
	}
	if count != n {
		t.Errorf("count after %d increments = %d, want %d", n, count, n)
	}
}

func TestKVUsageRepository_FreeCounterTTL(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewKVUsageRepository(store, slog.Default())
	ctx := context.Background()

	if _, err := repo.Increment(ctx, "198.51.100.2", false); err != nil {
		t.Fatalf("Increment: %v", err)
	}

	first, err := store.TTL(ctx, "usage:198.51.100.2")
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if first <= 23*time.Hour || first > 24*time.Hour {
		t.Fatalf("TTL after first increment = %v, want ~24h", first)
	}

	// Subsequent increments must not extend the window.
	for i := 0; i < 3; i++ {
		if _, err := repo.Increment(ctx, "198.51.100.2", false); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}
	later, err := store.TTL(ctx, "usage:198.51.100.2")
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if later > first {
		t.Errorf("TTL extended from %v to %v on repeat increments", first, later)
	}
	if later <= 23*time.Hour {
		t.Errorf("TTL = %v, want the original ~24h window", later)
	}
}

func TestKVUsageRepository_PaidUnlimitedCounterIsPermanent(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewKVUsageRepository(store, slog.Default())
	ctx := context.Background()

	if _, err := repo.Increment(ctx, "ABCD-EFGH-JKLM-NPQR", true); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	ttl, err := store.TTL(ctx, "usage:ABCD-EFGH-JKLM-NPQR")
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl >= 0 {
		t.Errorf("TTL = %v, want no expiry for a paid counter", ttl)
	}
}

func TestKVUsageRepository_DailyStats(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewKVUsageRepository(store, slog.Default())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.TrackDailyGeneration(ctx, "2026-09-01"); err != nil {
			t.Fatalf("TrackDailyGeneration: %v", err)
		}
	}

	n, err := repo.GetDailyGenerations(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("GetDailyGenerations: %v", err)
	}
	if n != 3 {
		t.Errorf("daily generations = %d, want 3", n)
	}

	ttl, err := store.TTL(ctx, "stats:daily:2026-09-01")
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 {
		t.Errorf("TTL = %v, want a bounded retention window", ttl)
	}

	n, err = repo.GetDailyGenerations(ctx, "2026-08-31")
	if err != nil {
		t.Fatalf("GetDailyGenerations: %v", err)
	}
	if n != 0 {
		t.Errorf("untracked date = %d, want 0", n)
	}
}
