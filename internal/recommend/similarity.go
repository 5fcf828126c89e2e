// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"math"
	"slices"
)

// ratingVector is a deduplicated rating set with its norm precomputed.
type ratingVector struct {
	ratings map[int]float64
	ids     []int // sorted
	norm    float64
}

// newRatingVector builds a vector from ratings. Later duplicates win.
func newRatingVector(ratings []Rating) ratingVector {
	m := make(map[int]float64, len(ratings))
	for _, r := range ratings {
		m[r.TMDBID] = r.Rating
	}

	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var sumSq float64
	for _, id := range ids {
		sumSq += m[id] * m[id]
	}

	return ratingVector{ratings: m, ids: ids, norm: math.Sqrt(sumSq)}
}

func (v ratingVector) has(id int) bool {
	_, ok := v.ratings[id]
	return ok
}

// Similarity scores two users' ratings.
//
// The dot product runs only over movies both users rated, while each norm
// covers that user's full rating set. Users with no movie in common, or with
// an all-zero rating set, score 0. This is not cosine similarity over the
// union and is kept that way.
func Similarity(a, b []Rating) float64 {
	return vectorSimilarity(newRatingVector(a), newRatingVector(b))
}

func vectorSimilarity(a, b ratingVector) float64 {
	if a.norm == 0 || b.norm == 0 {
		return 0
	}

	// Iterate the smaller side in sorted order so the sum is identical
	// whichever argument comes first.
	small, large := a, b
	if len(b.ids) < len(a.ids) {
		small, large = b, a
	}

	var dot float64
	shared := 0
	for _, id := range small.ids {
		other, ok := large.ratings[id]
		if !ok {
			continue
		}
		dot += small.ratings[id] * other
		shared++
	}
	if shared == 0 {
		return 0
	}

	return dot / (a.norm * b.norm)
}
