// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("collaborative"))

	RecordRecommendation("collaborative", 20*time.Millisecond)

	after := testutil.ToFloat64(RecommendRequests.WithLabelValues("collaborative"))
	if after-before != 1 {
		t.Errorf("recommend_requests_total{tier=collaborative} delta = %v, want 1", after-before)
	}

	var m dto.Metric
	observer, err := RecommendDuration.GetMetricWithLabelValues("collaborative")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	metric, ok := observer.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a prometheus.Metric", observer)
	}
	if err := metric.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetHistogram().GetSampleCount() == 0 {
		t.Error("recommend_duration_seconds has no samples")
	}
}

func TestRecordRecommendCache(t *testing.T) {
	hits := testutil.ToFloat64(RecommendCache.WithLabelValues("hit"))
	misses := testutil.ToFloat64(RecommendCache.WithLabelValues("miss"))

	RecordRecommendCache(true)
	RecordRecommendCache(false)
	RecordRecommendCache(false)

	if got := testutil.ToFloat64(RecommendCache.WithLabelValues("hit")) - hits; got != 1 {
		t.Errorf("hit delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RecommendCache.WithLabelValues("miss")) - misses; got != 2 {
		t.Errorf("miss delta = %v, want 2", got)
	}
}

func TestSetCacheAvailable(t *testing.T) {
	SetCacheAvailable("redis", true)
	if got := testutil.ToFloat64(CacheAvailable.WithLabelValues("redis")); got != 1 {
		t.Errorf("cache_available = %v, want 1", got)
	}

	SetCacheAvailable("redis", false)
	if got := testutil.ToFloat64(CacheAvailable.WithLabelValues("redis")); got != 0 {
		t.Errorf("cache_available = %v, want 0", got)
	}
}

func TestRecordCatalogRequest(t *testing.T) {
	tests := []struct {
		name   string
		status int
		label  string
	}{
		{"ok", 200, "200"},
		{"rate limited", 429, "429"},
		{"transport error", 0, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(CatalogRequests.WithLabelValues("discover", tt.label))
			RecordCatalogRequest("discover", tt.status, time.Millisecond)
			after := testutil.ToFloat64(CatalogRequests.WithLabelValues("discover", tt.label))
			if after-before != 1 {
				t.Errorf("catalog_requests_total{status=%s} delta = %v, want 1", tt.label, after-before)
			}
		})
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("find_user"))

	RecordDBQuery("find_user", time.Millisecond, nil)
	RecordDBQuery("find_user", time.Millisecond, errors.New("connection reset"))

	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("find_user")) - before; got != 1 {
		t.Errorf("duckdb_query_errors_total delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)

	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 1 {
		t.Errorf("api_active_requests delta = %v, want 1", got)
	}
}
