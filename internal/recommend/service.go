// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/metrics"
	"github.com/tomtom215/ticketai/internal/storage"
)

// InteractionSource supplies training interactions.
type InteractionSource interface {
	FetchInteractions(ctx context.Context) ([]features.Interaction, error)
}

// TitleSource resolves display titles. It never fails; unknown events get a
// placeholder title.
type TitleSource interface {
	EventTitle(ctx context.Context, eventID int) string
}

// Service serves recommendations from the currently published model.
type Service struct {
	cfg     Config
	manager *lifecycle.Manager[*Model, State]
	titles  TitleSource
	logger  zerolog.Logger
}

// NewService wires a lifecycle manager for the recommendation model.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(cfg Config, store *storage.Store, source InteractionSource, titles TitleSource, logger zerolog.Logger, opts ...lifecycle.Option) *Service {
	def := lifecycle.Definition[*Model, State]{
		Name:       ModelName,
		Descriptor: Descriptor,
		New:        func() *Model { return NewModel(cfg.NNeighbors) },
		Train: func(ctx context.Context) (*Model, lifecycle.Stats, error) {
			interactions, err := source.FetchInteractions(ctx)
			if err != nil {
				return nil, lifecycle.Stats{}, err
			}
			stats := lifecycle.Stats{Samples: len(interactions)}
			model, err := Fit(interactions, cfg.NNeighbors, cfg.MinInteractions)
			if err != nil {
				return nil, stats, err
			}
			stats.Users = model.matrix.Rows()
			stats.Items = model.matrix.Cols()
			return model, stats, nil
		},
		Snapshot: Snapshot,
		Restore:  FromState,
	}

	opts = append([]lifecycle.Option{
		lifecycle.WithTrainTimeout(cfg.TrainTimeout),
		lifecycle.WithKeepVersions(cfg.KeepVersions),
	}, opts...)

	return &Service{
		cfg:     cfg,
		manager: lifecycle.NewManager(def, store, logger, opts...),
		titles:  titles,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
}

// Manager exposes the lifecycle manager for background trainers.
func (s *Service) Manager() *lifecycle.Manager[*Model, State] { return s.manager }

// Info describes the published model.
func (s *Service) Info() lifecycle.Info { return s.manager.Info() }

// Train trains the model unless it is already fitted and force is false.
func (s *Service) Train(ctx context.Context, force bool) (lifecycle.Result, error) {
	return s.manager.Train(ctx, force)
}

// Recommend returns up to limit events for userID with titles and reasons.
// An unfitted model is trained once before serving.
func (s *Service) Recommend(ctx context.Context, userID, limit int) (*Response, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	start := time.Now()
	var res Result
	err := s.manager.WithModel(ctx, func(m *Model) error {
		var err error
		res, err = m.Recommend(ctx, userID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordInference(ModelName, time.Since(start))
	metrics.RecordRecommendation(res.ColdStart)

	recs := make([]Recommendation, len(res.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.TitleConcurrency)
	for i, item := range res.Items {
		recs[i] = Recommendation{
			EventID: item.EventID,
			Score:   item.Score,
			Reason:  Reason(item.Score),
		}
		g.Go(func() error {
			recs[i].Title = s.titles.EventTitle(gctx, item.EventID)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // title lookups never return errors

	s.logger.Debug().
		Int("user_id", userID).
		Int("count", len(recs)).
		Bool("cold_start", res.ColdStart).
		Dur("duration", time.Since(start)).
		Msg("Recommendations generated")

	return &Response{
		UserID:          userID,
		Recommendations: recs,
		GeneratedAt:     time.Now().UTC(),
		ColdStart:       res.ColdStart,
		ModelVersion:    s.manager.Info().Version,
	}, nil
}
