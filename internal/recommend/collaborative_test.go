// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"
)

func TestScoreCandidatesWeightedAverage(t *testing.T) {
	t.Parallel()

	user := ratings(1, 5, 2, 5)
	peers := []UserProfile{
		// identical taste on shared items, strongly similar
		{ID: "p1", Ratings: ratings(1, 5, 2, 5, 10, 2)},
		// weaker overlap
		{ID: "p2", Ratings: ratings(1, 5, 10, 10, 11, 9, 12, 9, 13, 9)},
	}

	sim1 := Similarity(user, peers[0].Ratings)
	sim2 := Similarity(user, peers[1].Ratings)

	got, err := scoreCandidates(context.Background(), user, peers, 2)
	if err != nil {
		t.Fatal(err)
	}

	byID := make(map[int]ScoredCandidate)
	for _, c := range got {
		byID[c.TMDBID] = c
	}

	want10 := (sim1*2 + sim2*10) / (sim1 + sim2)
	if c, ok := byID[10]; !ok || math.Abs(c.Score-want10) > epsilon {
		t.Errorf("score(10) = %+v, want %v", c, want10)
	}
	if c := byID[10]; math.Abs(c.SimilarityMass-(sim1+sim2)) > epsilon {
		t.Errorf("mass(10) = %v, want %v", c.SimilarityMass, sim1+sim2)
	}
	// Endorsed only by p2: average equals p2's rating, independent of sim2.
	if c := byID[11]; math.Abs(c.Score-9) > epsilon {
		t.Errorf("score(11) = %v, want 9", c.Score)
	}
	for _, rated := range []int{1, 2} {
		if _, ok := byID[rated]; ok {
			t.Errorf("already rated movie %d must not be a candidate", rated)
		}
	}
}

func TestScoreCandidatesSkipsNonPositivePeers(t *testing.T) {
	t.Parallel()

	user := ratings(1, 5, 2, 5, 3, 5)
	peers := []UserProfile{
		{ID: "disjoint", Ratings: ratings(7, 10, 8, 10)},
		{ID: "zeros", Ratings: ratings(1, 0, 2, 0, 9, 10)},
	}

	got, err := scoreCandidates(context.Background(), user, peers, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no candidates from zero-similarity peers, got %+v", got)
	}
}

func TestScoreCandidatesTieBreak(t *testing.T) {
	t.Parallel()

	user := ratings(1, 8, 2, 8, 3, 8)
	peers := []UserProfile{
		{ID: "p", Ratings: ratings(1, 8, 2, 8, 3, 8, 30, 7, 20, 7, 10, 7)},
	}

	got, err := scoreCandidates(context.Background(), user, peers, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].TMDBID != id {
			t.Errorf("rank %d = %d, want %d", i, got[i].TMDBID, id)
		}
	}
}

func TestScoreCandidatesWorkerCountInvariant(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(11))

	user := make([]Rating, 0, 10)
	for i := 0; i < 10; i++ {
		user = append(user, Rating{TMDBID: i, Rating: float64(1 + rng.Intn(10))})
	}
	peers := make([]UserProfile, 200)
	for i := range peers {
		rs := make([]Rating, 0, 20)
		for j := 0; j < 20; j++ {
			rs = append(rs, Rating{TMDBID: rng.Intn(60), Rating: float64(rng.Intn(11))})
		}
		peers[i] = UserProfile{ID: fmt.Sprintf("peer-%03d", i), Ratings: rs}
	}

	serial, err := scoreCandidates(context.Background(), user, peers, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, workers := range []int{2, 3, 8, 64, 500} {
		parallel, err := scoreCandidates(context.Background(), user, peers, workers)
		if err != nil {
			t.Fatal(err)
		}
		if len(parallel) != len(serial) {
			t.Fatalf("workers=%d: %d candidates, want %d", workers, len(parallel), len(serial))
		}
		want := make(map[int]float64, len(serial))
		for _, c := range serial {
			want[c.TMDBID] = c.Score
		}
		for i, c := range parallel {
			if math.Abs(want[c.TMDBID]-c.Score) > 1e-9 {
				t.Fatalf("workers=%d: score(%d) = %v, want %v", workers, c.TMDBID, c.Score, want[c.TMDBID])
			}
			if i > 0 && parallel[i-1].Score < c.Score {
				t.Fatalf("workers=%d: not sorted at rank %d", workers, i)
			}
		}
	}
}

func TestScoreCandidatesCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scoreCandidates(ctx, ratings(1, 5), []UserProfile{{ID: "p", Ratings: ratings(1, 5, 2, 5)}}, 1)
	if err == nil {
		t.Error("expected context error")
	}
}
