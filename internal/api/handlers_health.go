// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// healthCheckTimeout bounds each dependency probe in the health routes.
const healthCheckTimeout = 2 * time.Second

// HealthStatus is the payload of /health.
type HealthStatus struct {
	Status            string    `json:"status"`
	Version           string    `json:"version"`
	Timestamp         time.Time `json:"timestamp"`
	Uptime            float64   `json:"uptime_seconds"`
	CacheBackend      string    `json:"cache_backend"`
	CacheAvailable    bool      `json:"cache_available"`
	DatabaseConnected bool      `json:"database_connected"`
	CatalogBreaker    string    `json:"catalog_breaker,omitempty"`
}

func (h *Handler) databaseConnected(ctx context.Context) bool {
	if h.store == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return h.store.Ping(ctx) == nil
}

// Health godoc
// @Summary Service health
// @Description Reports database connectivity, cache backend and availability, catalog breaker state, and uptime. The service is degraded, not down, when the cache or catalog is unavailable.
// @Tags health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	dbConnected := h.databaseConnected(ctx)
	cacheAvailable := h.cache.Available(ctx)

	status := "healthy"
	if !cacheAvailable {
		status = "degraded"
	}

	var breaker string
	if h.breakerState != nil {
		state := h.breakerState()
		breaker = state.String()
		if state == gobreaker.StateOpen {
			status = "degraded"
		}
	}
	if !dbConnected {
		status = "unhealthy"
	}

	rw.Success(HealthStatus{
		Status:            status,
		Version:           h.version,
		Timestamp:         time.Now().UTC(),
		Uptime:            time.Since(h.startTime).Seconds(),
		CacheBackend:      h.cache.Backend(),
		CacheAvailable:    cacheAvailable,
		DatabaseConnected: dbConnected,
		CatalogBreaker:    breaker,
	})
}

// HealthLive godoc
// @Summary Liveness probe
// @Description Returns 200 while the process is running, regardless of dependencies.
// @Tags health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]any{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady godoc
// @Summary Readiness probe
// @Description Returns 200 when the user store answers, 503 otherwise. The cache is optional and does not affect readiness.
// @Tags health
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.databaseConnected(r.Context()) {
		rw.ServiceUnavailable("Database is not reachable")
		return
	}
	rw.Success(map[string]any{"ready": true})
}
