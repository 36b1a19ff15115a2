// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ticketai/internal/anomaly"
	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/recommend"
)

// RecommendationService is the subset of *recommend.Service the handlers use.
type RecommendationService interface {
	Recommend(ctx context.Context, userID, limit int) (*recommend.Response, error)
	Train(ctx context.Context, force bool) (lifecycle.Result, error)
	Info() lifecycle.Info
}

// AnomalyService is the subset of *anomaly.Service the handlers use.
type AnomalyService interface {
	Detect(ctx context.Context, records []features.Reservation) (*anomaly.DetectResponse, error)
	Train(ctx context.Context, force bool) (lifecycle.Result, error)
	Info() lifecycle.Info
}

// trainer is what the background train endpoints need.
type trainer interface {
	Train(ctx context.Context, force bool) (lifecycle.Result, error)
}

// Handler serves the TicketAI HTTP endpoints.
type Handler struct {
	recommend RecommendationService
	anomaly   AnomalyService
	version   string
	startTime time.Time
	logger    zerolog.Logger

	// background tracks training runs started by the train endpoints.
	background sync.WaitGroup
}

// NewHandler creates a Handler. version is reported by the root banner.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(rec RecommendationService, anom AnomalyService, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		recommend: rec,
		anomaly:   anom,
		version:   version,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Wait blocks until every background training run has finished.
func (h *Handler) Wait() {
	h.background.Wait()
}

// trainInBackground starts a training run that outlives the request. The
// managers bound each run with their own training timeout.
func (h *Handler) trainInBackground(ctx context.Context, model string, t trainer, force bool) {
	runCtx := context.WithoutCancel(ctx)
	h.background.Add(1)
	go func() {
		defer h.background.Done()
		res, err := t.Train(runCtx, force)
		if err != nil {
			h.logger.Error().Err(err).Str("model", model).Bool("force", force).Msg("Background training failed")
			return
		}
		h.logger.Info().
			Str("model", model).
			Str("outcome", string(res.Outcome)).
			Int("version", res.Version).
			Int("samples", res.Samples).
			Dur("duration", res.Duration).
			Msg("Background training finished")
	}()
}
