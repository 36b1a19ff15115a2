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

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/metrics"
)

// Fallback reasons, also used as metric labels.
const (
	reasonNoBackend   = "no_backend"
	reasonUpstream    = "upstream_error"
	reasonCircuitOpen = "circuit_open"
	reasonTimeout     = "timeout"
)

// Gateway serves training data and event titles to the engines, falling back
// to synthetic data when the backend is unavailable.
type Gateway struct {
	backend   Backend
	synthetic *Synthetic
	titles    *TitleCache
	logger    zerolog.Logger
}

// New creates a gateway. backend may be nil, in which case all training data
// is synthetic and titles are placeholders. titles may be nil to disable
// caching.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(backend Backend, synthetic *Synthetic, titles *TitleCache, logger zerolog.Logger) *Gateway {
	return &Gateway{
		backend:   backend,
		synthetic: synthetic,
		titles:    titles,
		logger:    logger.With().Str("component", "gateway").Logger(),
	}
}

// fallbackReason classifies err. It returns "" for errors that must not be
// hidden behind synthetic data.
func fallbackReason(err error) string {
	var upstream *UpstreamFetchError
	switch {
	case isBreakerRejection(err):
		return reasonCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.As(err, &upstream):
		return reasonUpstream
	default:
		return ""
	}
}

// FetchReservations returns backend reservations, or synthetic ones when
// the backend fails in a recoverable way.
func (g *Gateway) FetchReservations(ctx context.Context) ([]features.Reservation, error) {
	if g.backend == nil {
		metrics.RecordGatewayFallback(OpFetchReservations, reasonNoBackend)
		return g.synthetic.Reservations(), nil
	}

	records, err := g.backend.FetchReservations(ctx)
	if err == nil {
		g.logger.Info().Int("count", len(records)).Msg("Fetched reservations from backend")
		return records, nil
	}

	reason := fallbackReason(err)
	if reason == "" {
		return nil, fmt.Errorf("fetch reservations: %w", err)
	}
	metrics.RecordGatewayFallback(OpFetchReservations, reason)
	synthetic := g.synthetic.Reservations()
	g.logger.Warn().Err(err).Str("reason", reason).Int("count", len(synthetic)).
		Msg("Backend unavailable, using synthetic reservations")
	return synthetic, nil
}

// FetchInteractions returns one unit-weight interaction per backend
// reservation, or synthetic interactions when the backend fails in a
// recoverable way.
func (g *Gateway) FetchInteractions(ctx context.Context) ([]features.Interaction, error) {
	if g.backend == nil {
		metrics.RecordGatewayFallback(OpFetchInteractions, reasonNoBackend)
		return g.synthetic.Interactions(), nil
	}

	records, err := g.backend.FetchReservations(ctx)
	if err == nil {
		g.logger.Info().Int("count", len(records)).Msg("Fetched interactions from backend")
		return features.InteractionsFromReservations(records), nil
	}

	reason := fallbackReason(err)
	if reason == "" {
		return nil, fmt.Errorf("fetch interactions: %w", err)
	}
	metrics.RecordGatewayFallback(OpFetchInteractions, reason)
	synthetic := g.synthetic.Interactions()
	g.logger.Warn().Err(err).Str("reason", reason).Int("count", len(synthetic)).
		Msg("Backend unavailable, using synthetic interactions")
	return synthetic, nil
}

// PlaceholderTitle is the title used when an event cannot be resolved.
func PlaceholderTitle(eventID int) string {
	return fmt.Sprintf("Event %d", eventID)
}

// EventTitle resolves a display title. It never fails: lookup errors yield
// PlaceholderTitle.
func (g *Gateway) EventTitle(ctx context.Context, eventID int) string {
	if g.titles != nil {
		title, ok, err := g.titles.Get(eventID)
		switch {
		case err != nil:
			metrics.RecordTitleCache("error")
			g.logger.Debug().Err(err).Int("event_id", eventID).Msg("Title cache read failed")
		case ok:
			metrics.RecordTitleCache("hit")
			return title
		default:
			metrics.RecordTitleCache("miss")
		}
	}

	if g.backend == nil {
		return PlaceholderTitle(eventID)
	}

	details, err := g.backend.FetchEventDetails(ctx, eventID)
	if err != nil || details.Title == "" {
		g.logger.Warn().Err(err).Int("event_id", eventID).Msg("Event lookup failed, using placeholder title")
		return PlaceholderTitle(eventID)
	}

	if g.titles != nil {
		if err := g.titles.Put(eventID, details.Title); err != nil {
			g.logger.Debug().Err(err).Int("event_id", eventID).Msg("Title cache write failed")
		}
	}
	return details.Title
}
