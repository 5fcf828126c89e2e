// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/events"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds the wired components. close releases them in reverse order of creation.
type app struct {
	store    *database.Store
	gateway  cache.Gateway
	bus      *events.Bus
	consumer *events.Consumer
	tree     *supervisor.SupervisorTree
	server   *http.Server
	router   http.Handler
	logger   zerolog.Logger
}

// buildApp wires every component from cfg without starting anything.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, slogLogger *slog.Logger) (_ *app, err error) {
	a := &app{logger: logger}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	a.store, err = database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	if cfg.Database.SeedFile != "" {
		n, seedErr := a.store.LoadSeedFile(ctx, cfg.Database.SeedFile)
		if seedErr != nil {
			return nil, fmt.Errorf("seed database from %s: %w", cfg.Database.SeedFile, seedErr)
		}
		logger.Info().Int("users", n).Str("file", cfg.Database.SeedFile).Msg("Database seeded")
	}

	a.gateway, err = cache.New(&cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize cache: %w", err)
	}
	bestEffort := cache.NewBestEffort(a.gateway, cfg.Cache.OpTimeout, logger)
	logger.Info().Str("backend", a.gateway.Name()).Msg("Cache gateway initialized")

	breaker := catalog.NewBreakerClient(catalog.NewClient(&cfg.Catalog, logger), catalog.DefaultBreakerSettings(), logger)
	movies := catalog.NewCachedCatalog(breaker, bestEffort, cfg.Catalog.CacheTTL)

	peers := database.NewPeerSnapshot(a.store, cfg.Recommend.PeerSnapshotTTL, 0)
	engine, err := recommend.NewEngine(engineConfig(&cfg.Recommend), peers, movies, bestEffort, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize recommendation engine: %w", err)
	}

	a.bus = events.NewBus(logger)
	a.consumer = events.NewConsumer(a.bus, peers, bestEffort, logger)

	handler := api.NewHandler(api.HandlerDeps{
		Engine:       engine,
		Catalog:      movies,
		Store:        a.store,
		Publisher:    a.bus,
		Cache:        bestEffort,
		Config:       cfg,
		Version:      version,
		BreakerState: breaker.State,
	})
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	a.router = api.NewRouter(handler, mw).SetupChi()

	a.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	if cfg.Server.ShutdownTimeout > 0 {
		treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	}
	a.tree, err = supervisor.NewSupervisorTree(slogLogger, treeCfg)
	if err != nil {
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}

	a.tree.AddDataService(services.NewCacheProbeService(a.gateway, cfg.Cache.ProbeInterval, logger))
	a.tree.AddMessagingService(a.consumer)
	a.tree.AddAPIService(services.NewHTTPServerService(a.server, cfg.Server.ShutdownTimeout, logger))

	return a, nil
}

// engineConfig maps the recommend config section onto the engine's tuning.
func engineConfig(rc *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		DefaultLimit:      rc.DefaultLimit,
		MinRatingsForCF:   rc.MinRatingsForCF,
		CacheTTL:          rc.CacheTTL,
		EnrichConcurrency: rc.EnrichConcurrency,
		PeerPoolLimit:     rc.PeerPoolLimit,
		SimilarityWorkers: rc.SimilarityWorkers,
	}
}

// run serves the supervisor tree until ctx is canceled.
func (a *app) run(ctx context.Context) {
	// The channel receives exactly one value and is never closed.
	errCh := a.tree.ServeBackground(ctx)

	var err error
	select {
	case <-ctx.Done():
		a.logger.Info().Msg("Context canceled, waiting for supervisor to finish")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := a.tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		a.logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
}

// close releases resources. It is safe on a partially built app.
func (a *app) close() {
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing event bus")
		}
	}
	if a.gateway != nil {
		if err := a.gateway.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing cache gateway")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing database")
		}
	}
}
