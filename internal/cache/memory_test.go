// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryGatewayBasicOperations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryGateway()
	defer m.Close()

	if err := m.SetWithExpiry(ctx, "key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("SetWithExpiry() error = %v", err)
	}

	got, err := m.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "value1" {
		t.Errorf("Get() = %q, want value1", got)
	}

	if _, err := m.Get(ctx, "key2"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get(missing) error = %v, want ErrMiss", err)
	}
}

func TestMemoryGatewayExpiration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryGateway()
	defer m.Close()

	_ = m.SetWithExpiry(ctx, "short", []byte("v"), 50*time.Millisecond)
	_ = m.SetWithExpiry(ctx, "long", []byte("v"), time.Minute)

	time.Sleep(100 * time.Millisecond)

	if _, err := m.Get(ctx, "short"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}
	if _, err := m.Get(ctx, "long"); err != nil {
		t.Errorf("expected long-lived entry to hit, got %v", err)
	}

	stats := m.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
}

func TestMemoryGatewayReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryGateway()
	defer m.Close()

	in := []byte("abc")
	_ = m.SetWithExpiry(ctx, "k", in, time.Minute)
	in[0] = 'x'

	out, _ := m.Get(ctx, "k")
	if string(out) != "abc" {
		t.Fatalf("stored value mutated through caller slice: %q", out)
	}
	out[1] = 'y'

	again, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value mutated through returned slice: %q", again)
	}
}

func TestMemoryGatewayDeletePrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryGateway()
	defer m.Close()

	for _, k := range []string{"recs:alice:12", "recs:alice:5:g=Drama", "recs:alicia:12", "tmdb:movie:1"} {
		_ = m.SetWithExpiry(ctx, k, []byte("v"), time.Minute)
	}

	if err := m.DeletePrefix(ctx, "recs:alice:"); err != nil {
		t.Fatalf("DeletePrefix() error = %v", err)
	}

	tests := []struct {
		key  string
		want bool
	}{
		{"recs:alice:12", false},
		{"recs:alice:5:g=Drama", false},
		{"recs:alicia:12", true},
		{"tmdb:movie:1", true},
	}
	for _, tt := range tests {
		_, err := m.Get(ctx, tt.key)
		if got := err == nil; got != tt.want {
			t.Errorf("Get(%q) present = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestMemoryGatewayHitRate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryGateway()
	defer m.Close()

	if rate := m.HitRate(); rate != 0 {
		t.Errorf("HitRate() with no operations = %v, want 0", rate)
	}

	_ = m.SetWithExpiry(ctx, "k", []byte("v"), time.Minute)
	_, _ = m.Get(ctx, "k")
	_, _ = m.Get(ctx, "k")
	_, _ = m.Get(ctx, "missing")

	stats := m.GetStats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 2 hits 1 miss", stats)
	}
	if rate := m.HitRate(); rate < 66 || rate > 67 {
		t.Errorf("HitRate() = %v, want ~66.67", rate)
	}
}

func TestMemoryGatewayCleanupLoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newMemoryGateway(20 * time.Millisecond)
	defer m.Close()

	_ = m.SetWithExpiry(ctx, "k", []byte("v"), 10*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if m.GetStats().TotalKeys == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("cleanup loop did not remove expired entry")
}

func TestMemoryGatewayCloseIdempotent(t *testing.T) {
	t.Parallel()
	m := NewMemoryGateway()
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryGatewayConcurrency(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryGateway()
	defer m.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", id%10)
			_ = m.SetWithExpiry(ctx, key, []byte("v"), time.Minute)
			_, _ = m.Get(ctx, key)
			if id%7 == 0 {
				_ = m.DeletePrefix(ctx, "key1")
			}
		}(i)
	}
	wg.Wait()
}

func BenchmarkMemoryGatewayGet(b *testing.B) {
	ctx := context.Background()
	m := NewMemoryGateway()
	defer m.Close()
	_ = m.SetWithExpiry(ctx, "key", []byte("value"), time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Get(ctx, "key")
	}
}
