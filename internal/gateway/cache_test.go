package gateway_test

import (
	"context"
	"testing"
	"time"

	"autotag/internal/gateway"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := gateway.OpenCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()
	ctx := context.Background()

	if _, _, ok, err := cache.Get(ctx, "https://example.com/a"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Put(ctx, "https://example.com/a", 200, []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	status, body, ok, err := cache.Get(ctx, "https://example.com/a")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if status != 200 || string(body) != "payload" {
		t.Fatalf("unexpected row: %d %q", status, body)
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, err := gateway.OpenCache(t.TempDir(), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Put(ctx, "u", 200, []byte("x")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, _, ok, err := cache.Get(ctx, "u"); err != nil || ok {
		t.Fatalf("expected expired miss, got ok=%v err=%v", ok, err)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	cache, err := gateway.OpenCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()
	ctx := context.Background()

	for _, u := range []string{"a", "b", "c"} {
		if err := cache.Put(ctx, u, 200, []byte(u)); err != nil {
			t.Fatal(err)
		}
	}
	if err := cache.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, _, ok, _ := cache.Get(ctx, "a"); ok {
		t.Fatal("expected deleted row to miss")
	}

	removed, err := cache.Clear(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 cleared rows, got %d", removed)
	}

	live, expired, err := cache.Stats(ctx)
	if err != nil || live != 0 || expired != 0 {
		t.Fatalf("unexpected stats: live=%d expired=%d err=%v", live, expired, err)
	}
}

func TestCachePutOverwrites(t *testing.T) {
	cache, err := gateway.OpenCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Put(ctx, "u", 404, nil); err != nil {
		t.Fatal(err)
	}
	if err := cache.Put(ctx, "u", 200, []byte("fresh")); err != nil {
		t.Fatal(err)
	}
	status, body, ok, err := cache.Get(ctx, "u")
	if err != nil || !ok || status != 200 || string(body) != "fresh" {
		t.Fatalf("unexpected row after overwrite: %d %q ok=%v err=%v", status, body, ok, err)
	}
}
