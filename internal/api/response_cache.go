// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/metrics"
)

// Response cache prefixes for the movie routes.
const (
	CachePrefixSearch   = "movies_search"
	CachePrefixDetails  = "movies_details"
	CachePrefixTrending = "movies_trending"
	CachePrefixPopular  = "movies_popular"
)

// DefaultResponseCacheTTL is how long a cached movie response is served.
const DefaultResponseCacheTTL = time.Hour

// cacheHeader reports whether a response came from the response cache.
const cacheHeader = "X-Cache"

// ResponseCacheKey is the key a response is stored under.
func ResponseCacheKey(prefix string, r *http.Request) string {
	return prefix + ":" + r.Method + ":" + r.URL.RequestURI()
}

// bufferedResponseWriter holds the response so it can be cached before it is sent.
type bufferedResponseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedResponseWriter() *bufferedResponseWriter {
	return &bufferedResponseWriter{header: make(http.Header)}
}

func (b *bufferedResponseWriter) Header() http.Header { return b.header }

func (b *bufferedResponseWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedResponseWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

// flush copies the buffered response to w.
func (b *bufferedResponseWriter) flush(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = v
	}
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(b.body.Bytes())
}

// ResponseCache serves GET responses from the cache gateway. A hit is
// returned as is with X-Cache: HIT. On a miss the handler runs and only a
// 2xx body is stored, with X-Cache: MISS. A nil or unavailable cache passes
// requests through untouched.
func ResponseCache(c *cache.BestEffort, prefix string, ttl time.Duration) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = DefaultResponseCacheTTL
	}
	return func(next http.Handler) http.Handler {
		if c == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := ResponseCacheKey(prefix, r)
			if body, ok := c.Get(r.Context(), key); ok {
				metrics.ResponseCache.WithLabelValues(prefix, "hit").Inc()
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set(cacheHeader, "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}
			metrics.ResponseCache.WithLabelValues(prefix, "miss").Inc()

			buf := newBufferedResponseWriter()
			next.ServeHTTP(buf, r)

			if buf.status >= 200 && buf.status < 300 && buf.body.Len() > 0 {
				c.Set(r.Context(), key, bytes.Clone(buf.body.Bytes()), ttl)
				buf.header.Set(cacheHeader, "MISS")
			}
			buf.flush(w)
		})
	}
}
