// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package database is the DuckDB-backed user store: users, their ratings,
// and their preferred genres.
//
// Store implements recommend.UserStore. PeerSnapshot wraps a Store with a
// short-lived in-process cache of peer pools so concurrent recommendation
// requests share one scan of the ratings table.
//
//	db, err := database.New(&cfg.Database, logger)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	peers := database.NewPeerSnapshot(db, time.Minute, 64)
//	engine, err := recommend.NewEngine(recCfg, peers, catalog, cache, logger)
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/metrics"
)

// ErrRatingNotFound is returned by DeleteRating when there is nothing to delete.
var ErrRatingNotFound = errors.New("rating not found")

// Store wraps the DuckDB connection.
type Store struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	logger zerolog.Logger
}

// New opens the database at cfg.Path and creates the schema. ":memory:" opens
// a private in-memory database.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg *config.DatabaseConfig, logger zerolog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("database config is required")
	}

	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "512MB"
	}

	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	// Extensions are never fetched at runtime; the schema uses core types only.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With().Str("component", "database").Logger(),
	}
	s.configureConnectionPool()

	if err := s.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s.logger.Info().Str("path", cfg.Path).Int("threads", numThreads).Msg("User store ready")
	return s, nil
}

func (s *Store) configureConnectionPool() {
	s.conn.SetMaxOpenConns(runtime.NumCPU())
	s.conn.SetMaxIdleConns(2)
	s.conn.SetConnMaxLifetime(time.Hour)
	s.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Ping checks that the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return errors.New("database connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Close flushes the WAL and closes the connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	if s.cfg.Path != ":memory:" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return s.conn.Close()
}

// observe records a query's latency and outcome. Use with a named error return:
//
//	defer s.observe("find_user", time.Now(), &err)
func (s *Store) observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	metrics.RecordDBQuery(op, time.Since(start), err)
}
