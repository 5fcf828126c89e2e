// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// partialScores are one worker's running totals.
type partialScores struct {
	weighted map[int]float64
	mass     map[int]float64
}

// scoreCandidates ranks movies the user has not rated by the similarity-weighted
// average of peer ratings. Peers with similarity <= 0 are ignored.
//
// Peers are split into contiguous chunks scored in parallel; the per-chunk
// totals are merged in chunk order so the result does not depend on scheduling.
func scoreCandidates(ctx context.Context, user []Rating, peers []UserProfile, workers int) ([]ScoredCandidate, error) {
	if len(peers) == 0 {
		return nil, nil
	}

	target := newRatingVector(user)

	if workers < 1 {
		workers = 1
	}
	chunkSize := (len(peers) + workers - 1) / workers
	chunks := (len(peers) + chunkSize - 1) / chunkSize
	partials := make([]partialScores, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < chunks; c++ {
		lo := c * chunkSize
		hi := min(lo+chunkSize, len(peers))
		g.Go(func() error {
			p, err := scoreChunk(gctx, target, peers[lo:hi])
			if err != nil {
				return err
			}
			partials[c] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	weighted := make(map[int]float64)
	mass := make(map[int]float64)
	for _, p := range partials {
		for id, w := range p.weighted {
			weighted[id] += w
			mass[id] += p.mass[id]
		}
	}

	scored := make([]ScoredCandidate, 0, len(weighted))
	for id, w := range weighted {
		m := mass[id]
		if m == 0 {
			continue
		}
		scored = append(scored, ScoredCandidate{TMDBID: id, Score: w / m, SimilarityMass: m})
	}

	rankCandidates(scored)
	return scored, nil
}

func scoreChunk(ctx context.Context, target ratingVector, peers []UserProfile) (partialScores, error) {
	p := partialScores{
		weighted: make(map[int]float64),
		mass:     make(map[int]float64),
	}

	for i := range peers {
		if err := ctx.Err(); err != nil {
			return p, err
		}

		peer := newRatingVector(peers[i].Ratings)
		sim := vectorSimilarity(target, peer)
		if sim <= 0 {
			continue
		}

		for _, id := range peer.ids {
			if target.has(id) {
				continue
			}
			p.weighted[id] += sim * peer.ratings[id]
			p.mass[id] += abs(sim)
		}
	}
	return p, nil
}

// rankCandidates sorts by score descending, then by movie id ascending.
func rankCandidates(c []ScoredCandidate) {
	slices.SortFunc(c, func(a, b ScoredCandidate) int {
		if s := cmp.Compare(b.Score, a.Score); s != 0 {
			return s
		}
		return cmp.Compare(a.TMDBID, b.TMDBID)
	})
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
