// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const seedYAML = `
users:
  - id: alice
    favoriteGenres: ["18", "27"]
    ratings:
      - movieId: 550
        rating: 9
      - movieId: 680
        rating: 8.5
  - id: bob
    ratings:
      - movieId: 550
        rating: 7
`

func TestLoadSeedFile(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	n, err := db.LoadSeedFile(ctx, path)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if n != 2 {
		t.Errorf("users = %d, want 2", n)
	}

	alice, err := db.FindUser(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(alice.Ratings) != 2 || len(alice.PreferredGenres) != 2 {
		t.Errorf("alice = %+v", alice)
	}

	// Loading twice is idempotent.
	if _, err := db.LoadSeedFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	bob, _ := db.FindUser(ctx, "bob")
	if len(bob.Ratings) != 1 {
		t.Errorf("bob ratings = %+v", bob.Ratings)
	}
}

func TestSeedErrors(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
	}{
		{"unknown field", "users:\n  - id: a\n    nickname: x\n"},
		{"missing id", "users:\n  - ratings: []\n"},
		{"rating out of range", "users:\n  - id: a\n    ratings:\n      - movieId: 1\n        rating: 11\n"},
		{"malformed", "users: [\n"},
	}
	for _, tt := range tests {
		if _, err := db.Seed(ctx, strings.NewReader(tt.input)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	if n, err := db.Seed(ctx, strings.NewReader("")); err != nil || n != 0 {
		t.Errorf("empty seed = %d, %v", n, err)
	}
	if _, err := db.LoadSeedFile(ctx, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
