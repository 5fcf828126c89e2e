// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics holds the Prometheus instruments shared across Marquee.
//
// Instruments are registered on the default registry through promauto and
// exposed by the API router at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marquee"

var (
	// Recommendation Engine Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_requests_total",
			Help:      "Recommendation requests answered, by serving tier",
		},
		[]string{"tier"}, // "cache", "collaborative", "preference", "popular", "unavailable"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "End-to-end recommendation latency, by serving tier",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"tier"},
	)

	RecommendCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_cache_total",
			Help:      "Recommendation cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	RecommendEnrichFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_enrich_failures_total",
			Help:      "Detail lookups that degraded to a placeholder record",
		},
	)

	RecommendTierFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_tier_failures_total",
			Help:      "Tier runs that failed and fell through to the next tier",
		},
		[]string{"tier"},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_cf_candidates",
			Help:      "Number of scored candidates produced by collaborative filtering",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// Cache Gateway Metrics
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache gateway operations",
		},
		[]string{"backend", "op", "result"}, // op: get/set/delete; result: hit/miss/ok/error/skipped
	)

	CacheAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_available",
			Help:      "Whether the cache gateway currently reports available (1) or not (0)",
		},
		[]string{"backend"},
	)

	// Catalog (TMDB) Metrics
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Upstream catalog API requests",
		},
		[]string{"endpoint", "status"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Upstream catalog API latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CatalogRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_retries_total",
			Help:      "Catalog requests retried after HTTP 429",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_transitions_total",
			Help:      "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// User Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duckdb_query_duration_seconds",
			Help:      "Duration of DuckDB user store queries",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duckdb_query_errors_total",
			Help:      "DuckDB user store query errors",
		},
		[]string{"operation"},
	)

	PeerSnapshotLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peer_snapshot_lookups_total",
			Help:      "Peer pool snapshot cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events published on the in-process bus",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_consumed_total",
			Help:      "Domain events handled by consumers",
		},
		[]string{"topic", "result"}, // "ok", "error"
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP API request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "In-flight HTTP API requests",
		},
	)

	ResponseCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_total",
			Help:      "HTTP response cache lookups",
		},
		[]string{"prefix", "result"},
	)
)

// RecordRecommendation records one answered recommendation request.
func RecordRecommendation(tier string, duration time.Duration) {
	RecommendRequests.WithLabelValues(tier).Inc()
	RecommendDuration.WithLabelValues(tier).Observe(duration.Seconds())
}

// RecordRecommendCache records a recommendation cache lookup.
func RecordRecommendCache(hit bool) {
	if hit {
		RecommendCache.WithLabelValues("hit").Inc()
		return
	}
	RecommendCache.WithLabelValues("miss").Inc()
}

// RecordCacheOp records a cache gateway operation outcome.
func RecordCacheOp(backend, op, result string) {
	CacheOperations.WithLabelValues(backend, op, result).Inc()
}

// SetCacheAvailable publishes the availability flag of a cache backend.
func SetCacheAvailable(backend string, available bool) {
	v := 0.0
	if available {
		v = 1
	}
	CacheAvailable.WithLabelValues(backend).Set(v)
}

// RecordCatalogRequest records an upstream catalog request. status is the HTTP
// status code, or 0 when the request never produced a response.
func RecordCatalogRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	CatalogRequests.WithLabelValues(endpoint, label).Inc()
	CatalogRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records a user store query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
