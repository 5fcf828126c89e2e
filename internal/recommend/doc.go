// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recommend answers "recommend N movies for user U".
//
// # Tiers
//
// The engine evaluates an ordered list of tiers and runs the first one whose
// precondition holds for the user's profile:
//
//   - collaborative: the user has at least MinRatingsForCF ratings. Peers are
//     weighted by Similarity and candidates are scored by the
//     similarity-weighted average of peer ratings.
//   - preference: the user has preferred genres. Popular movies in those genres.
//   - popular: unconditional. Globally popular movies.
//
// An unknown user has an empty profile and lands on preference or popular.
// A tier that fails falls through to the next applicable tier. Only when
// every tier fails does Recommend return ErrCatalogUnavailable.
//
// # Caching
//
// Results are cached under recs:<user>:<limit> (the preference tier appends
// :g=<sorted genres>) through a cache.BestEffort, so cache trouble is only
// ever a miss.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, cat, cache, logger)
//	res, err := engine.Recommend(ctx, "alice", 12)
//	if errors.Is(err, recommend.ErrCatalogUnavailable) {
//	    // 503
//	}
//
// # Thread Safety
//
// Engine holds no per-request mutable state and is safe for concurrent use.
package recommend
