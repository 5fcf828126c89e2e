// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
)

type mockPurger struct {
	calls atomic.Int32
}

func (m *mockPurger) Purge() { m.calls.Add(1) }

type mockInvalidator struct {
	mu       sync.Mutex
	prefixes []string
	ok       bool
}

func (m *mockInvalidator) DeletePrefix(_ context.Context, prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefixes = append(m.prefixes, prefix)
	return m.ok
}

func (m *mockInvalidator) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prefixes...)
}

func TestRatingChangedValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		event   RatingChanged
		wantErr bool
	}{
		{"upsert", RatingChanged{UserID: "u", TMDBID: 1, Kind: KindRatingUpserted}, false},
		{"delete", RatingChanged{UserID: "u", TMDBID: 1, Kind: KindRatingDeleted}, false},
		{"preferences", RatingChanged{UserID: "u", Kind: KindPreferencesUpdated}, false},
		{"missing user", RatingChanged{Kind: KindRatingUpserted}, true},
		{"unknown kind", RatingChanged{UserID: "u", Kind: "renamed"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.event.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConsumerInvalidate(t *testing.T) {
	t.Parallel()
	bus := NewBus(zerolog.Nop())
	defer bus.Close()

	purger := &mockPurger{}
	inv := &mockInvalidator{ok: true}
	c := NewConsumer(bus, purger, inv, zerolog.Nop())

	c.Invalidate(context.Background(), &RatingChanged{UserID: "a:1", TMDBID: 5, Kind: KindRatingUpserted})

	if purger.calls.Load() != 1 {
		t.Error("peer snapshot should be purged")
	}
	if got := inv.seen(); len(got) != 1 || got[0] != "recs:a%3A1:" {
		t.Errorf("prefixes = %v, want [recs:a%%3A1:]", got)
	}
	if c.Handled() != 1 {
		t.Errorf("Handled() = %d", c.Handled())
	}
}

func TestConsumerHandleMalformed(t *testing.T) {
	t.Parallel()
	bus := NewBus(zerolog.Nop())
	defer bus.Close()

	purger := &mockPurger{}
	c := NewConsumer(bus, purger, nil, zerolog.Nop())

	for _, payload := range []string{"not json", `{"kind":"rating_upserted"}`} {
		if err := c.Handle(message.NewMessage(watermill.NewUUID(), []byte(payload))); err != nil {
			t.Errorf("Handle(%q) error = %v, malformed messages are acked", payload, err)
		}
	}
	if c.Invalid() != 2 || purger.calls.Load() != 0 {
		t.Errorf("invalid = %d, purges = %d", c.Invalid(), purger.calls.Load())
	}
}

func TestPublishRejectsInvalidEvent(t *testing.T) {
	t.Parallel()
	bus := NewBus(zerolog.Nop())
	defer bus.Close()

	if err := bus.PublishRatingChanged(context.Background(), RatingChanged{Kind: KindRatingDeleted}); err == nil {
		t.Error("expected validation error")
	}
}

func TestBusDeliversToConsumer(t *testing.T) {
	t.Parallel()
	bus := NewBus(zerolog.Nop())
	defer bus.Close()

	purger := &mockPurger{}
	inv := &mockInvalidator{ok: true}
	c := NewConsumer(bus, purger, inv, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	pubCtx := logging.ContextWithCorrelationID(context.Background(), "abc12345")
	deadline := time.Now().Add(3 * time.Second)
	// Events published before the router subscribes are dropped, so keep publishing.
	for c.Handled() == 0 && time.Now().Before(deadline) {
		if err := bus.PublishRatingChanged(pubCtx, RatingChanged{UserID: "alice", TMDBID: 550, Kind: KindRatingUpserted}); err != nil {
			t.Fatalf("publish error = %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if c.Handled() == 0 {
		t.Fatal("consumer never handled an event")
	}
	if got := inv.seen(); got[0] != "recs:alice:" {
		t.Errorf("prefix = %q", got[0])
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestConsumerServeRestarts(t *testing.T) {
	t.Parallel()
	bus := NewBus(zerolog.Nop())
	defer bus.Close()

	c := NewConsumer(bus, nil, nil, zerolog.Nop())
	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		_ = c.Serve(ctx)
		cancel()
	}

	// The bus must still accept subscribers after a router stopped.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := bus.Subscriber().Subscribe(ctx, TopicRatingsChanged); err != nil {
		t.Errorf("Subscribe after restart error = %v", err)
	}
}

func TestConsumerString(t *testing.T) {
	t.Parallel()
	bus := NewBus(zerolog.Nop())
	defer bus.Close()
	if got := NewConsumer(bus, nil, nil, zerolog.Nop()).String(); got != "rating-event-consumer" {
		t.Errorf("String() = %q", got)
	}
}
