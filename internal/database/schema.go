// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the user store tables. Timestamps are written by the
// application so the schema needs no ICU functions.
func (s *Store) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR PRIMARY KEY,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_ratings (
			user_id VARCHAR NOT NULL,
			tmdb_id INTEGER NOT NULL,
			rating DOUBLE NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, tmdb_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_genres (
			user_id VARCHAR NOT NULL,
			genre VARCHAR NOT NULL,
			PRIMARY KEY (user_id, genre)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_ratings_tmdb ON user_ratings(tmdb_id)`,
	}
}
