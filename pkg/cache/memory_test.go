package cache

import (
	"context"
	"testing"
	"time"
)

type payload struct {
	Date string `json:"date"`
	Bars int    `json:"bars"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()
	ctx := context.Background()

	in := payload{Date: "2025-03-14", Bars: 390}
	if err := mc.Set(ctx, SessionKey("MNQ=F", in.Date), in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := mc.Get(ctx, SessionKey("MNQ=F", in.Date), &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var out payload
	if err := mc.Get(context.Background(), "absent", &out); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", payload{Date: "d"}, 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	var out payload
	if err := mc.Get(ctx, "k", &out); err != ErrCacheMiss {
		t.Fatalf("expected expired entry to miss, got %v", err)
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", payload{Date: "a"}, time.Minute)
	time.Sleep(2 * time.Millisecond)
	_ = mc.Set(ctx, "b", payload{Date: "b"}, time.Minute)
	time.Sleep(2 * time.Millisecond)
	_ = mc.Set(ctx, "c", payload{Date: "c"}, time.Minute)

	var out payload
	if err := mc.Get(ctx, "a", &out); err != ErrCacheMiss {
		t.Fatalf("oldest entry should be evicted, got %v", err)
	}
	if err := mc.Get(ctx, "c", &out); err != nil {
		t.Fatalf("newest entry missing: %v", err)
	}
}

func TestLayeredCacheMemoryOnly(t *testing.T) {
	lc := NewLayeredCache(nil, WithLayeredMemorySize(10))
	defer lc.Close()
	ctx := context.Background()

	in := payload{Date: "2025-03-14", Bars: 1}
	if err := lc.Set(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out payload
	if err := lc.Get(ctx, "k", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
	if err := lc.Get(ctx, "missing", &out); err != ErrCacheMiss {
		t.Fatalf("expected miss, got %v", err)
	}
}
