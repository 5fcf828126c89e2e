// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML fixture format:
//
//	users:
//	  - id: alice
//	    favoriteGenres: ["18", "27"]
//	    ratings:
//	      - movieId: 550
//	        rating: 9
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// SeedUser is one user in a seed file.
type SeedUser struct {
	ID             string       `yaml:"id"`
	FavoriteGenres []string     `yaml:"favoriteGenres"`
	Ratings        []SeedRating `yaml:"ratings"`
}

// SeedRating is one rating in a seed file.
type SeedRating struct {
	MovieID int     `yaml:"movieId"`
	Rating  float64 `yaml:"rating"`
}

// LoadSeedFile reads a YAML fixture file and writes its users into the store.
// Existing ratings for the same movies are overwritten.
func (s *Store) LoadSeedFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer closeWithLog(f, s.logger, "seed file")

	return s.Seed(ctx, f)
}

// Seed loads fixtures from r and returns the number of users written.
func (s *Store) Seed(ctx context.Context, r io.Reader) (int, error) {
	var seed SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	for i, u := range seed.Users {
		if u.ID == "" {
			return i, fmt.Errorf("seed user %d: id is required", i)
		}
		if err := s.EnsureUser(ctx, u.ID); err != nil {
			return i, err
		}
		for _, r := range u.Ratings {
			if err := s.UpsertRating(ctx, u.ID, r.MovieID, r.Rating); err != nil {
				return i, fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
		if len(u.FavoriteGenres) > 0 {
			if err := s.SetPreferredGenres(ctx, u.ID, u.FavoriteGenres); err != nil {
				return i, fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
	}

	s.logger.Info().Int("users", len(seed.Users)).Msg("Seeded user store")
	return len(seed.Users), nil
}
