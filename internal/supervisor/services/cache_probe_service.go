// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/metrics"
)

// ProbedCache is the part of a cache gateway the probe service needs.
type ProbedCache interface {
	Name() string
	Available(ctx context.Context) bool
}

// CacheProbeService refreshes cache availability on an interval and
// publishes it as the cache_available gauge. Gateways implementing
// cache.Prober are probed; others only have their flag reported.
type CacheProbeService struct {
	gw       ProbedCache
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheProbeService creates a probe service. interval <= 0 uses 15s.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheProbeService(gw ProbedCache, interval time.Duration, logger zerolog.Logger) *CacheProbeService {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	timeout := 2 * time.Second
	if interval < timeout {
		timeout = interval
	}
	return &CacheProbeService{
		gw:       gw,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With().Str("service", "cache-probe").Str("backend", gw.Name()).Logger(),
		name:     "cache-probe",
	}
}

// Serve implements suture.Service. It probes once at start, then on every tick.
func (s *CacheProbeService) Serve(ctx context.Context) error {
	s.logger.Debug().Dur("interval", s.interval).Msg("cache probe starting")
	s.probe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

// probe refreshes and reports availability. A failed probe is not a service
// failure; the cache is optional.
func (s *CacheProbeService) probe(ctx context.Context) {
	if p, ok := s.gw.(cache.Prober); ok {
		probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := p.Probe(probeCtx)
		cancel()
		if err != nil && ctx.Err() == nil {
			s.logger.Debug().Err(err).Msg("cache probe failed")
		}
	}
	metrics.SetCacheAvailable(s.gw.Name(), s.gw.Available(ctx))
}

// String returns the service name for logging.
func (s *CacheProbeService) String() string {
	return s.name
}
