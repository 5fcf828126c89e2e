// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"math"
	"math/rand"
	"testing"
)

const epsilon = 1e-12

func ratings(pairs ...float64) []Rating {
	out := make([]Rating, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Rating{TMDBID: int(pairs[i]), Rating: pairs[i+1]})
	}
	return out
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []Rating
		want float64
	}{
		{
			name: "identical vectors",
			a:    ratings(1, 5, 2, 3, 3, 8),
			b:    ratings(1, 5, 2, 3, 3, 8),
			want: 1,
		},
		{
			name: "scaled vectors",
			a:    ratings(1, 2, 2, 4),
			b:    ratings(1, 4, 2, 8),
			want: 1,
		},
		{
			name: "no shared items",
			a:    ratings(1, 5, 2, 3),
			b:    ratings(3, 5, 4, 3),
			want: 0,
		},
		{
			name: "norms use each full vector",
			a:    ratings(1, 5, 2, 3),
			b:    ratings(1, 4),
			// dot over {1} = 20, |a| = sqrt(34), |b| = 4
			want: 20 / (math.Sqrt(34) * 4),
		},
		{
			name: "unshared items only enter the norm",
			a:    ratings(1, 3, 2, 4),
			b:    ratings(1, 3, 9, 4),
			// dot = 9, |a| = |b| = 5
			want: 9.0 / 25.0,
		},
		{
			name: "zero norm",
			a:    ratings(1, 0, 2, 0),
			b:    ratings(1, 5, 2, 5),
			want: 0,
		},
		{
			name: "empty vector",
			a:    nil,
			b:    ratings(1, 5),
			want: 0,
		},
		{
			name: "duplicates keep the last rating",
			a:    ratings(1, 1, 1, 5),
			b:    ratings(1, 5),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("Similarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarityProperties(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))

	randomVector := func() []Rating {
		n := 1 + rng.Intn(15)
		out := make([]Rating, n)
		for i := range out {
			out[i] = Rating{TMDBID: rng.Intn(30), Rating: float64(rng.Intn(11))}
		}
		return out
	}

	for i := 0; i < 500; i++ {
		a, b := randomVector(), randomVector()

		ab, ba := Similarity(a, b), Similarity(b, a)
		if ab != ba {
			t.Fatalf("not symmetric: %v vs %v for %v / %v", ab, ba, a, b)
		}
		if ab < 0 || ab > 1+epsilon {
			t.Fatalf("out of range: %v", ab)
		}

		if newRatingVector(a).norm > 0 {
			if self := Similarity(a, a); math.Abs(self-1) > epsilon {
				t.Fatalf("Similarity(v, v) = %v, want 1 for %v", self, a)
			}
		}
	}
}

func TestSimilarityDisjointAlwaysZero(t *testing.T) {
	t.Parallel()
	for i := 1; i <= 20; i++ {
		a := ratings(float64(i), 7, float64(i+100), 3)
		b := ratings(float64(i+200), 7, float64(i+300), 9)
		if got := Similarity(a, b); got != 0 {
			t.Fatalf("Similarity(disjoint) = %v, want 0", got)
		}
	}
}

func BenchmarkSimilarity(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	a := make([]Rating, 200)
	c := make([]Rating, 200)
	for i := range a {
		a[i] = Rating{TMDBID: rng.Intn(1000), Rating: float64(rng.Intn(11))}
		c[i] = Rating{TMDBID: rng.Intn(1000), Rating: float64(rng.Intn(11))}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Similarity(a, c)
	}
}
