// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testPayload struct {
	Location string  `json:"location_name"`
	Temp     float64 `json:"temp"`
}

func TestTypedCache_BasicOperations(t *testing.T) {
	memCache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = memCache.Close() }()

	cache := NewTypedCache[testPayload](memCache, time.Hour)
	ctx := context.Background()

	want := testPayload{Location: "Tokyo", Temp: 21.5}
	if err := cache.Set(ctx, "w:1", want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := cache.Get(ctx, "w:1")
	if !found {
		t.Fatal("expected to find w:1")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	_ = cache.Delete(ctx, "w:1")
	if _, found := cache.Get(ctx, "w:1"); found {
		t.Error("expected miss after Delete")
	}
}

func TestTypedCache_UndecodableIsMiss(t *testing.T) {
	memCache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = memCache.Close() }()
	ctx := context.Background()

	_ = memCache.Set(ctx, "bad", []byte("{not json"), 0)

	cache := NewTypedCache[testPayload](memCache, time.Hour)
	got, found := cache.Get(ctx, "bad")
	if found {
		t.Errorf("expected miss for undecodable entry, got %+v", got)
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	memCache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = memCache.Close() }()

	cache := NewTypedCache[map[string]any](memCache, time.Hour)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (map[string]any, error) {
		calls++
		return map[string]any{"time": "12:00:00"}, nil
	}

	for range 3 {
		got, err := cache.GetOrSet(ctx, "clock", load)
		if err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if got["time"] != "12:00:00" {
			t.Errorf("got %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestTypedCache_GetOrSetError(t *testing.T) {
	memCache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = memCache.Close() }()

	cache := NewTypedCache[testPayload](memCache, time.Hour)
	ctx := context.Background()

	boom := errors.New("upstream down")
	_, err := cache.GetOrSet(ctx, "w", func(context.Context) (testPayload, error) {
		return testPayload{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if has, _ := memCache.Has(ctx, "w"); has {
		t.Error("failed load must not be cached")
	}
}
