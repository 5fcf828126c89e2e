// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/recommend"
)

// Rating bounds accepted by UpsertRating.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// FindUser loads a user's ratings and preferred genres.
// It returns recommend.ErrUserNotFound for an unknown id.
func (s *Store) FindUser(ctx context.Context, id string) (_ *recommend.UserProfile, err error) {
	defer s.observe("find_user", time.Now(), &err)

	var exists bool
	if err = s.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	if !exists {
		return nil, recommend.ErrUserNotFound
	}

	ratings, err := s.listRatings(ctx, id)
	if err != nil {
		return nil, err
	}
	genres, err := s.listGenres(ctx, id)
	if err != nil {
		return nil, err
	}

	return &recommend.UserProfile{ID: id, Ratings: ratings, PreferredGenres: genres}, nil
}

// PeerPool returns every user other than excludeID with at least one rating,
// ordered by user id. limit > 0 caps the number of users returned.
// Peer profiles carry ratings only.
func (s *Store) PeerPool(ctx context.Context, excludeID string, limit int) (_ []recommend.UserProfile, err error) {
	defer s.observe("peer_pool", time.Now(), &err)

	inner := `SELECT DISTINCT user_id FROM user_ratings WHERE user_id <> ? ORDER BY user_id`
	args := []any{excludeID}
	if limit > 0 {
		inner += ` LIMIT ?`
		args = append(args, limit)
	}
	query := `SELECT user_id, tmdb_id, rating, updated_at FROM user_ratings
		WHERE user_id IN (` + inner + `)
		ORDER BY user_id, tmdb_id`

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query peer pool: %w", err)
	}
	defer closeWithLog(rows, s.logger, "rows")

	var peers []recommend.UserProfile
	for rows.Next() {
		var (
			userID string
			r      recommend.Rating
		)
		if err = rows.Scan(&userID, &r.TMDBID, &r.Rating, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan peer rating: %w", err)
		}
		if n := len(peers); n == 0 || peers[n-1].ID != userID {
			peers = append(peers, recommend.UserProfile{ID: userID})
		}
		last := &peers[len(peers)-1]
		last.Ratings = append(last.Ratings, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate peer pool: %w", err)
	}
	return peers, nil
}

// EnsureUser creates the user row if it does not exist.
func (s *Store) EnsureUser(ctx context.Context, id string) (err error) {
	defer s.observe("ensure_user", time.Now(), &err)
	return ensureUser(ctx, s.conn, id)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func ensureUser(ctx context.Context, db execer, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("user id is required")
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO users (id, created_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`,
		id, time.Now().UTC()); err != nil {
		return fmt.Errorf("ensure user %s: %w", id, err)
	}
	return nil
}

// UpsertRating stores userID's rating of tmdbID, replacing any earlier rating.
// The user is created on first write.
func (s *Store) UpsertRating(ctx context.Context, userID string, tmdbID int, rating float64) (err error) {
	defer s.observe("upsert_rating", time.Now(), &err)

	if tmdbID <= 0 {
		return fmt.Errorf("invalid movie id %d", tmdbID)
	}
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating %v out of range [%v, %v]", rating, MinRating, MaxRating)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if err = ensureUser(ctx, tx, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO user_ratings (user_id, tmdb_id, rating, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, tmdb_id) DO UPDATE SET rating = excluded.rating, updated_at = excluded.updated_at`,
		userID, tmdbID, rating, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return tx.Commit()
}

// DeleteRating removes userID's rating of tmdbID.
func (s *Store) DeleteRating(ctx context.Context, userID string, tmdbID int) (err error) {
	defer s.observe("delete_rating", time.Now(), &err)

	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM user_ratings WHERE user_id = ? AND tmdb_id = ?`, userID, tmdbID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if n == 0 {
		return ErrRatingNotFound
	}
	return nil
}

// ListRatings returns userID's ratings, most recent first.
// It returns recommend.ErrUserNotFound for an unknown user.
func (s *Store) ListRatings(ctx context.Context, userID string) (_ []recommend.Rating, err error) {
	defer s.observe("list_ratings", time.Now(), &err)

	var exists bool
	if err = s.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	if !exists {
		return nil, recommend.ErrUserNotFound
	}

	ratings, err := s.listRatings(ctx, userID)
	if err != nil {
		return nil, err
	}
	// listRatings orders by id for the similarity path.
	sortByRecency(ratings)
	return ratings, nil
}

func (s *Store) listRatings(ctx context.Context, userID string) ([]recommend.Rating, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT tmdb_id, rating, updated_at FROM user_ratings WHERE user_id = ? ORDER BY tmdb_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer closeWithLog(rows, s.logger, "rows")

	ratings := []recommend.Rating{}
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.TMDBID, &r.Rating, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

func (s *Store) listGenres(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT genre FROM user_genres WHERE user_id = ? ORDER BY genre`, userID)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer closeWithLog(rows, s.logger, "rows")

	genres := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}
	return genres, nil
}

// SetPreferredGenres replaces userID's preferred genres. The user is created
// on first write. Genres are trimmed and deduplicated; an empty list clears them.
func (s *Store) SetPreferredGenres(ctx context.Context, userID string, genres []string) (err error) {
	defer s.observe("set_genres", time.Now(), &err)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if err = ensureUser(ctx, tx, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM user_genres WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear genres: %w", err)
	}
	for _, g := range catalog.NormalizeGenres(genres) {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO user_genres (user_id, genre) VALUES (?, ?)`, userID, g); err != nil {
			return fmt.Errorf("insert genre %q: %w", g, err)
		}
	}
	return tx.Commit()
}

// sortByRecency orders ratings newest first, ties by movie id.
func sortByRecency(ratings []recommend.Rating) {
	slices.SortStableFunc(ratings, func(a, b recommend.Rating) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.TMDBID, b.TMDBID)
	})
}
