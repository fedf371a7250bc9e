package kv

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_GetSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		_, found, err := store.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found {
			t.Error("expected found=false for absent key")
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := store.Set(ctx, "k", "v"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		val, found, err := store.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !found || val != "v" {
			t.Errorf("Get = (%q, %v), want (\"v\", true)", val, found)
		}
	})
}

func TestMemoryStore_IncrBy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	n, err := store.IncrBy(ctx, "counter", 1)
	if err != nil {
		t.Fatalf("IncrBy: %v", err)
	}
	if n != 1 {
		t.Errorf("first increment = %d, want 1", n)
	}

	for i := 2; i <= 5; i++ {
		n, err = store.IncrBy(ctx, "counter", 1)
		if err != nil {
			t.Fatalf("IncrBy: %v", err)
		}
		if n != int64(i) {
			t.Errorf("increment %d = %d, want %d", i, n, i)
		}
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Expire(ctx, "k", 50*time.Millisecond); err != nil {
		t.Fatalf("Expire: %v", err)
	}

	ttl, err := store.TTL(ctx, "k")
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > 50*time.Millisecond {
		t.Errorf("TTL = %v, want in (0, 50ms]", ttl)
	}

	// Simulate the clock passing the deadline.
	store.now = func() time.Time { return time.Now().Add(time.Second) }

	_, found, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected key to be expired")
	}
}

func TestMemoryStore_TTLAbsentForPermanentKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ttl, err := store.TTL(ctx, "k")
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl >= 0 {
		t.Errorf("TTL = %v, want negative for a key without expiry", ttl)
	}
}

func TestMemoryStore_SetNX(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ok, err := store.SetNX(ctx, "once", "first", 0)
	if err != nil {
		t.Fatalf("SetNX: %v", err)
	}
	if !ok {
		t.Fatal("expected first SetNX to win")
	}

	ok, err = store.SetNX(ctx, "once", "second", 0)
	if err != nil {
		t.Fatalf("SetNX: %v", err)
	}
	if ok {
		t.Error("expected second SetNX to lose")
	}

	val, _, _ := store.Get(ctx, "once")
	if val != "first" {
		t.Errorf("value = %q, want \"first\"", val)
	}
}
