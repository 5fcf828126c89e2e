// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/metrics"
)

// BreakerSettings configures BreakerClient.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32        // probes allowed in half-open state
	Interval     time.Duration // closed-state count reset window
	Timeout      time.Duration // open -> half-open delay
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings opens after a 60% failure rate over at least 10
// requests and probes again after 2 minutes.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "tmdb-api",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerClient wraps a Catalog with a circuit breaker.
//
// ErrNotFound and caller cancellation do not count as failures.
type BreakerClient struct {
	next   Catalog
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger zerolog.Logger
}

// NewBreakerClient wraps next.
func NewBreakerClient(next Catalog, s BreakerSettings, logger zerolog.Logger) *BreakerClient {
	logger = logger.With().Str("component", "catalog").Str("breaker", s.Name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= s.FailureRatio {
				logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("Opening catalog circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("Catalog circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerClient{next: next, cb: cb, name: s.Name, logger: logger}
}

// State returns the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// Discover calls the wrapped catalog through the breaker.
func (b *BreakerClient) Discover(ctx context.Context, params DiscoverParams) (*Page, error) {
	return castResult[*Page](b.execute(func() (any, error) {
		return b.next.Discover(ctx, params)
	}))
}

// Details calls the wrapped catalog through the breaker.
func (b *BreakerClient) Details(ctx context.Context, id int) (*Movie, error) {
	return castResult[*Movie](b.execute(func() (any, error) {
		return b.next.Details(ctx, id)
	}))
}

// Search calls the wrapped catalog through the breaker.
func (b *BreakerClient) Search(ctx context.Context, params SearchParams) (*Page, error) {
	return castResult[*Page](b.execute(func() (any, error) {
		return b.next.Search(ctx, params)
	}))
}

// Trending calls the wrapped catalog through the breaker.
func (b *BreakerClient) Trending(ctx context.Context) ([]Movie, error) {
	return castResult[[]Movie](b.execute(func() (any, error) {
		return b.next.Trending(ctx)
	}))
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

var _ Catalog = (*BreakerClient)(nil)
