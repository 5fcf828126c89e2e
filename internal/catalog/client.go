// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog talks to the TMDB movie catalog.
//
// The stack used by the server is
//
//	CachedCatalog -> BreakerClient -> Client
//
// so cache hits never touch the breaker and breaker rejections never reach TMDB.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/metrics"
)

// maxErrorBody is how much of a failed response body is kept in the error.
const maxErrorBody = 512

// Client is the HTTP client for the TMDB v3 API.
//
// Every request waits on a token bucket limiter. HTTP 429 responses are
// retried with exponential backoff (1s, 2s, 4s, ...), honoring Retry-After.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	logger         zerolog.Logger
}

// NewClient creates a TMDB client from cfg.
func NewClient(cfg *config.CatalogConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
		logger:         logger.With().Str("component", "catalog").Logger(),
	}
}

// Discover calls GET /discover/movie.
func (c *Client) Discover(ctx context.Context, params DiscoverParams) (*Page, error) {
	var page Page
	if err := c.get(ctx, "discover", "/discover/movie", params.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Details calls GET /movie/{id}.
func (c *Client) Details(ctx context.Context, id int) (*Movie, error) {
	var movie Movie
	if err := c.get(ctx, "details", "/movie/"+strconv.Itoa(id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Search calls GET /search/movie.
func (c *Client) Search(ctx context.Context, params SearchParams) (*Page, error) {
	var page Page
	if err := c.get(ctx, "search", "/search/movie", params.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Trending calls GET /trending/movie/week and returns its results.
func (c *Client) Trending(ctx context.Context) ([]Movie, error) {
	var page Page
	if err := c.get(ctx, "trending", "/trending/movie/week", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// get performs a GET against path and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	start := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, endpoint, reqURL)
	if err != nil {
		metrics.RecordCatalogRequest(endpoint, 0, time.Since(start))
		return fmt.Errorf("catalog %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.RecordCatalogRequest(endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("catalog %s: %w", endpoint, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("catalog %s: unexpected status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog %s: decode response: %w", endpoint, err)
	}
	return nil
}

// doRequestWithRateLimit performs the request, retrying HTTP 429 with backoff.
func (c *Client) doRequestWithRateLimit(ctx context.Context, endpoint, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("%w after %d retries", ErrRateLimited, c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if d, ok := parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()); ok {
			delay = d
		}

		metrics.CatalogRetries.WithLabelValues(endpoint).Inc()
		c.logger.Warn().Str("endpoint", endpoint).Int("attempt", attempt+1).Dur("delay", delay).Msg("Catalog rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

var _ Catalog = (*Client)(nil)
