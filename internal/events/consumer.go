// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// SnapshotPurger drops cached peer pools.
type SnapshotPurger interface {
	Purge()
}

// PrefixInvalidator drops cached entries by key prefix. cache.BestEffort
// implements it.
type PrefixInvalidator interface {
	DeletePrefix(ctx context.Context, prefix string) bool
}

// Consumer invalidates caches when a user's ratings change. It runs as a
// suture service; each Serve call runs a fresh watermill router.
type Consumer struct {
	sub    message.Subscriber
	peers  SnapshotPurger
	cache  PrefixInvalidator
	logger zerolog.Logger

	closeTimeout time.Duration

	handled atomic.Int64
	invalid atomic.Int64
}

// NewConsumer creates a consumer for bus. peers and c may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewConsumer(bus *Bus, peers SnapshotPurger, c PrefixInvalidator, logger zerolog.Logger) *Consumer {
	return &Consumer{
		sub:          sharedSubscriber{bus.Subscriber()},
		peers:        peers,
		cache:        c,
		logger:       logger.With().Str("component", "event-consumer").Logger(),
		closeTimeout: 10 * time.Second,
	}
}

// sharedSubscriber keeps a stopping router from closing the bus it does not own.
type sharedSubscriber struct {
	message.Subscriber
}

func (sharedSubscriber) Close() error { return nil }

// Serve runs until ctx is canceled.
func (c *Consumer) Serve(ctx context.Context) error {
	wmLogger := newWatermillLogger(c.logger)
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: c.closeTimeout}, wmLogger)
	if err != nil {
		return fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddConsumerHandler("rating-cache-invalidation", TopicRatingsChanged, c.sub, c.Handle)

	c.logger.Info().Str("topic", TopicRatingsChanged).Msg("Event consumer started")
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (c *Consumer) String() string {
	return "rating-event-consumer"
}

// Handle processes one message. Malformed messages are acknowledged and dropped.
func (c *Consumer) Handle(msg *message.Message) error {
	e, err := decode(msg.Payload)
	if err != nil {
		c.invalid.Add(1)
		metrics.EventsConsumed.WithLabelValues(TopicRatingsChanged, "invalid").Inc()
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed rating event")
		return nil
	}

	ctx := msg.Context()
	if id := msg.Metadata.Get("correlation_id"); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}
	c.Invalidate(ctx, e)
	return nil
}

// Invalidate purges the peer snapshot and the user's cached recommendations.
func (c *Consumer) Invalidate(ctx context.Context, e *RatingChanged) {
	if c.peers != nil {
		c.peers.Purge()
	}

	result := "ok"
	if c.cache != nil && !c.cache.DeletePrefix(ctx, recommend.CacheKeyPrefix(e.UserID)) {
		result = "skipped"
	}

	c.handled.Add(1)
	metrics.EventsConsumed.WithLabelValues(TopicRatingsChanged, result).Inc()
	c.logger.Debug().
		Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
		Str("user_id", e.UserID).
		Str("kind", e.Kind).
		Str("result", result).
		Msg("Rating event handled")
}

// Handled returns the number of events processed.
func (c *Consumer) Handled() int64 {
	return c.handled.Load()
}

// Invalid returns the number of malformed messages dropped.
func (c *Consumer) Invalid() int64 {
	return c.invalid.Load()
}
