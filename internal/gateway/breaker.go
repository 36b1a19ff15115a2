// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/metrics"
)

// BreakerName labels the backend circuit breaker in logs and metrics.
const BreakerName = "backend-api"

// BreakerBackend wraps a Backend with a circuit breaker. A missing event is
// a successful call as far as the breaker is concerned.
//
// The breaker uses wall-clock time for its interval and open timeout; tests
// should exercise the wrapped backend rather than wait on the breaker.
type BreakerBackend struct {
	backend Backend
	cb      *gobreaker.CircuitBreaker[interface{}]
	logger  zerolog.Logger
}

// NewBreakerBackend wraps backend. The circuit opens once at least
// cfg.MinRequests calls were made in the interval and cfg.FailureRatio of
// them failed.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerBackend(backend Backend, cfg BreakerConfig, logger zerolog.Logger) *BreakerBackend {
	logger = logger.With().Str("component", "circuit_breaker").Str("breaker", BreakerName).Logger()

	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrEventNotFound)
		},
	})

	return &BreakerBackend{backend: backend, cb: cb, logger: logger}
}

// State returns the breaker state as a string.
func (b *BreakerBackend) State() string { return stateToString(b.cb.State()) }

func (b *BreakerBackend) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if isBreakerRejection(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "rejected").Inc()
			b.logger.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(0)
	return result, nil
}

// FetchReservations calls the backend through the breaker.
func (b *BreakerBackend) FetchReservations(ctx context.Context) ([]features.Reservation, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.backend.FetchReservations(ctx)
	})
	if err != nil {
		return nil, err
	}
	typed, ok := result.([]features.Reservation)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// FetchEventDetails calls the backend through the breaker.
func (b *BreakerBackend) FetchEventDetails(ctx context.Context, eventID int) (*EventDetails, error) {
	return castResult[EventDetails](b.execute(func() (interface{}, error) {
		return b.backend.FetchEventDetails(ctx, eventID)
	}))
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
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

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
