// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/cache"
)

func newTestCached(t *testing.T, inner Catalog) (*CachedCatalog, *cache.MemoryGateway) {
	t.Helper()
	gw := cache.NewMemoryGateway()
	t.Cleanup(func() { _ = gw.Close() })
	return NewCachedCatalog(inner, cache.NewBestEffort(gw, 0, zerolog.Nop()), time.Hour), gw
}

func TestCachedCatalogDetails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := &mockCatalog{}
	c, gw := newTestCached(t, inner)

	for i := 0; i < 3; i++ {
		m, err := c.Details(ctx, 42)
		if err != nil || m.ID != 42 {
			t.Fatalf("Details() = %+v, %v", m, err)
		}
	}
	if got := inner.detailsCalls.Load(); got != 1 {
		t.Errorf("inner Details calls = %d, want 1", got)
	}
	if _, err := gw.Get(ctx, "tmdb:movie:42"); err != nil {
		t.Errorf("expected tmdb:movie:42 in cache, err = %v", err)
	}
}

func TestCachedCatalogDoesNotCacheErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := &mockCatalog{err: ErrNotFound}
	c, _ := newTestCached(t, inner)

	for i := 0; i < 2; i++ {
		if _, err := c.Details(ctx, 1); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Details() error = %v, want ErrNotFound", err)
		}
	}
	if got := inner.detailsCalls.Load(); got != 2 {
		t.Errorf("inner Details calls = %d, want 2", got)
	}
}

func TestCachedCatalogDiscoverKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := &mockCatalog{}
	c, _ := newTestCached(t, inner)

	_, _ = c.Discover(ctx, DiscoverParams{SortBy: SortPopularityDesc, WithGenres: []string{"28", "12"}, Page: 1})
	_, _ = c.Discover(ctx, DiscoverParams{SortBy: SortPopularityDesc, WithGenres: []string{"12", "28"}, Page: 1})
	if got := inner.discoverCalls.Load(); got != 1 {
		t.Errorf("equal params should share a cache entry, inner calls = %d", got)
	}

	_, _ = c.Discover(ctx, DiscoverParams{SortBy: SortPopularityDesc, Page: 1})
	if got := inner.discoverCalls.Load(); got != 2 {
		t.Errorf("different params should miss, inner calls = %d", got)
	}
}

func TestCachedCatalogSearchAndTrending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := &mockCatalog{}
	c, _ := newTestCached(t, inner)

	_, _ = c.Search(ctx, SearchParams{Query: "up", Page: 1})
	_, _ = c.Search(ctx, SearchParams{Query: "up"})
	_, _ = c.Search(ctx, SearchParams{Query: "up", Page: 2})
	if got := inner.searchCalls.Load(); got != 2 {
		t.Errorf("inner Search calls = %d, want 2", got)
	}

	for i := 0; i < 2; i++ {
		movies, err := c.Trending(ctx)
		if err != nil || len(movies) != 1 {
			t.Fatalf("Trending() = %+v, %v", movies, err)
		}
	}
	if got := inner.trendingCalls.Load(); got != 1 {
		t.Errorf("inner Trending calls = %d, want 1", got)
	}
}

func TestSearchKey(t *testing.T) {
	t.Parallel()
	adult := true
	tests := []struct {
		params SearchParams
		want   string
	}{
		{SearchParams{Query: "alien"}, "tmdb:search:alien:1"},
		{SearchParams{Query: "alien", Page: 3}, "tmdb:search:alien:3"},
		{SearchParams{Query: "alien", Page: 1, PrimaryReleaseYear: 1979}, "tmdb:search:alien:1:y=1979"},
		{SearchParams{Query: "alien", Page: 1, IncludeAdult: &adult}, "tmdb:search:alien:1:adult"},
	}
	for _, tt := range tests {
		if got := SearchKey(tt.params); got != tt.want {
			t.Errorf("SearchKey(%+v) = %q, want %q", tt.params, got, tt.want)
		}
	}
}
