// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// BadgerGateway is an embedded live store with native per-key TTL.
type BadgerGateway struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadgerGateway opens a badger DB at path. An empty path runs in memory.
func NewBadgerGateway(path string, logger zerolog.Logger) (*BadgerGateway, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	return &BadgerGateway{
		db:     db,
		logger: logger.With().Str("component", "cache").Str("backend", "badger").Logger(),
	}, nil
}

// Name returns "badger".
func (b *BadgerGateway) Name() string { return "badger" }

// Available reports whether the DB is open.
func (b *BadgerGateway) Available(context.Context) bool {
	return !b.db.IsClosed()
}

// Get returns the value for key, mapping ErrKeyNotFound to ErrMiss.
func (b *BadgerGateway) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return val, nil
}

// SetWithExpiry writes value with a native TTL.
func (b *BadgerGateway) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

// DeletePrefix drops every key starting with prefix.
func (b *BadgerGateway) DeletePrefix(_ context.Context, prefix string) error {
	if err := b.db.DropPrefix([]byte(prefix)); err != nil {
		return fmt.Errorf("badger drop prefix: %w", err)
	}
	return nil
}

// Close closes the DB.
func (b *BadgerGateway) Close() error {
	return b.db.Close()
}

var (
	_ Gateway       = (*BadgerGateway)(nil)
	_ PrefixDeleter = (*BadgerGateway)(nil)
)
