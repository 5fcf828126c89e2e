// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/tomtom215/marquee/internal/cache"
)

// Cache key prefixes. The recommendation cache uses "recs:".
const (
	keyMovie    = "tmdb:movie:"
	keyDiscover = "tmdb:discover:"
	keySearch   = "tmdb:search:"
	keyTrending = "tmdb:trending"
)

// CachedCatalog adds cache-aside to every call of the wrapped Catalog.
// Only successful responses are cached.
type CachedCatalog struct {
	next  Catalog
	cache *cache.BestEffort
	ttl   time.Duration
}

// NewCachedCatalog wraps next with a cache.
func NewCachedCatalog(next Catalog, c *cache.BestEffort, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, cache: c, ttl: ttl}
}

// DetailsKey is the cache key of a detail record.
func DetailsKey(id int) string {
	return keyMovie + strconv.Itoa(id)
}

// DiscoverKey is the cache key of a discover page.
func DiscoverKey(params DiscoverParams) string {
	return keyDiscover + params.CanonicalKey()
}

// SearchKey is the cache key of a search page.
func SearchKey(params SearchParams) string {
	page := params.Page
	if page <= 0 {
		page = 1
	}
	key := keySearch + params.Query + ":" + strconv.Itoa(page)
	if params.PrimaryReleaseYear > 0 {
		key += ":y=" + strconv.Itoa(params.PrimaryReleaseYear)
	}
	if params.IncludeAdult != nil && *params.IncludeAdult {
		key += ":adult"
	}
	return key
}

// Discover returns a cached page or fetches and caches it.
func (c *CachedCatalog) Discover(ctx context.Context, params DiscoverParams) (*Page, error) {
	return cacheAside(ctx, c, DiscoverKey(params), func() (*Page, error) {
		return c.next.Discover(ctx, params)
	})
}

// Details returns a cached detail record or fetches and caches it.
func (c *CachedCatalog) Details(ctx context.Context, id int) (*Movie, error) {
	return cacheAside(ctx, c, DetailsKey(id), func() (*Movie, error) {
		return c.next.Details(ctx, id)
	})
}

// Search returns a cached search page or fetches and caches it.
func (c *CachedCatalog) Search(ctx context.Context, params SearchParams) (*Page, error) {
	return cacheAside(ctx, c, SearchKey(params), func() (*Page, error) {
		return c.next.Search(ctx, params)
	})
}

// Trending returns the cached trending list or fetches and caches it.
func (c *CachedCatalog) Trending(ctx context.Context) ([]Movie, error) {
	var cached []Movie
	if c.cache.GetJSON(ctx, keyTrending, &cached) {
		return cached, nil
	}
	movies, err := c.next.Trending(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetJSON(ctx, keyTrending, movies, c.ttl)
	return movies, nil
}

func cacheAside[T any](ctx context.Context, c *CachedCatalog, key string, fetch func() (*T, error)) (*T, error) {
	var cached T
	if c.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}
	v, err := fetch()
	if err != nil {
		return nil, err
	}
	c.cache.SetJSON(ctx, key, v, c.ttl)
	return v, nil
}

var _ Catalog = (*CachedCatalog)(nil)
