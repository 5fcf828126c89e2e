// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Router wires the handler and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware

	// responseCacheTTL is the TTL of cached movie responses.
	responseCacheTTL time.Duration
}

// NewRouter creates a router. A nil middleware factory uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:          handler,
		chiMiddleware:    mw,
		responseCacheTTL: DefaultResponseCacheTTL,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(RequestLogger())
	r.Use(PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/recommendations/user/{userID}", router.handler.GetRecommendations)

		r.Route("/movies", func(r chi.Router) {
			c := router.handler.cache
			ttl := router.responseCacheTTL
			r.With(ResponseCache(c, CachePrefixSearch, ttl)).Get("/search", router.handler.SearchMovies)
			r.With(ResponseCache(c, CachePrefixDetails, ttl)).Get("/details/{id}", router.handler.GetMovieDetails)
			r.With(ResponseCache(c, CachePrefixTrending, ttl)).Get("/trending", router.handler.GetTrendingMovies)
			r.With(ResponseCache(c, CachePrefixPopular, ttl)).Get("/popular", router.handler.GetPopularMovies)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/ratings", router.handler.RateMovie)
			r.Get("/ratings", router.handler.ListRatings)
			r.Delete("/ratings/{movieID}", router.handler.DeleteRating)
			r.Put("/preferences", router.handler.UpdatePreferences)
		})
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
