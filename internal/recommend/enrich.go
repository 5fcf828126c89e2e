// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/metrics"
)

// enrich resolves ids to detail records concurrently, keeping the order of ids.
// A failed lookup yields catalog.Placeholder(id), so the result always has len(ids) entries.
// failed counts the placeholders.
func (e *Engine) enrich(ctx context.Context, ids []int) (movies []catalog.Movie, failed int) {
	movies = make([]catalog.Movie, len(ids))
	var failures atomic.Int32

	var g errgroup.Group
	g.SetLimit(e.cfg.EnrichConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			m, err := e.catalog.Details(ctx, id)
			if err != nil || m == nil {
				failures.Add(1)
				metrics.RecommendEnrichFailures.Inc()
				e.logger.Debug().Err(err).Int("tmdb_id", id).Msg("Detail lookup failed, using placeholder")
				movies[i] = catalog.Placeholder(id)
				return nil
			}
			movies[i] = *m
			return nil
		})
	}
	_ = g.Wait()

	return movies, int(failures.Load())
}
