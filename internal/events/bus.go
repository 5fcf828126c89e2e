// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// Publisher publishes rating changes. The HTTP handlers depend on this
// interface rather than on Bus.
type Publisher interface {
	PublishRatingChanged(ctx context.Context, e RatingChanged) error
}

// Bus is the in-process event bus.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates a bus. Watermill logs go through logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(logger zerolog.Logger) *Bus {
	wmLogger := newWatermillLogger(logger.With().Str("component", "events").Logger())
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, wmLogger),
		logger: wmLogger,
	}
}

// newWatermillLogger adapts a zerolog logger for watermill through slog.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newWatermillLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(slog.New(logging.NewSlogHandlerWithLogger(logger)))
}

// PublishRatingChanged publishes e on TopicRatingsChanged. A zero OccurredAt is
// set to now. The request's correlation id travels in the message metadata.
func (b *Bus) PublishRatingChanged(ctx context.Context, e RatingChanged) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	payload, err := encode(&e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("kind", e.Kind)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}

	if err := b.pubsub.Publish(TopicRatingsChanged, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicRatingsChanged, err)
	}
	metrics.EventsPublished.WithLabelValues(TopicRatingsChanged).Inc()
	return nil
}

// Subscriber returns the subscriber side of the bus.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close closes the bus. Subscriptions end and later publishes fail.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
