// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package events carries rating-change notifications between the API and the
// caches that depend on a user's ratings.
//
// The bus is an in-process watermill gochannel Pub/Sub. Delivery is
// best-effort: an event published while no consumer is subscribed is dropped,
// and cached entries then expire on their TTL.
//
//	bus := events.NewBus(logger)
//	consumer := events.NewConsumer(bus, peerSnapshot, bestEffortCache, logger)
//	tree.AddMessagingService(consumer)
//
//	_ = bus.PublishRatingChanged(ctx, events.RatingChanged{UserID: "alice", TMDBID: 550, Kind: events.KindRatingUpserted})
package events

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
)

// TopicRatingsChanged is the topic for RatingChanged events.
const TopicRatingsChanged = "ratings.changed"

// Kinds of rating change.
const (
	KindRatingUpserted     = "rating_upserted"
	KindRatingDeleted      = "rating_deleted"
	KindPreferencesUpdated = "preferences_updated"
)

// RatingChanged reports that a user's ratings or preferred genres changed.
// TMDBID is zero for preference updates.
type RatingChanged struct {
	UserID     string    `json:"userId"`
	TMDBID     int       `json:"tmdbId,omitempty"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Validate checks the event before it is published.
func (e *RatingChanged) Validate() error {
	if e.UserID == "" {
		return errors.New("event user id is required")
	}
	switch e.Kind {
	case KindRatingUpserted, KindRatingDeleted, KindPreferencesUpdated:
		return nil
	default:
		return errors.New("unknown event kind: " + e.Kind)
	}
}

func encode(e *RatingChanged) ([]byte, error) {
	return json.Marshal(e)
}

func decode(payload []byte) (*RatingChanged, error) {
	var e RatingChanged
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
