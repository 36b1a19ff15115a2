// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package anomaly

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/metrics"
	"github.com/tomtom215/ticketai/internal/storage"
)

// ReservationSource supplies training reservations.
type ReservationSource interface {
	FetchReservations(ctx context.Context) ([]features.Reservation, error)
}

// Flagged pairs an anomalous reservation with its prediction.
type Flagged struct {
	Reservation features.Reservation
	Prediction  Prediction
}

// Notifier receives anomalies found by Detect. Implementations must not
// block the request for long.
type Notifier interface {
	AnomaliesDetected(ctx context.Context, flagged []Flagged)
}

// DetectResponse summarizes a detection batch.
type DetectResponse struct {
	TotalChecked   int          `json:"total_checked"`
	AnomaliesFound int          `json:"anomalies_found"`
	Results        []Prediction `json:"results"`
	ModelVersion   int          `json:"model_version"`
}

// Service scores reservation batches against the currently published model.
type Service struct {
	manager  *lifecycle.Manager[*Model, State]
	notifier Notifier
	logger   zerolog.Logger
}

// NewService wires a lifecycle manager for the anomaly model.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(cfg Config, store *storage.Store, source ReservationSource, logger zerolog.Logger, opts ...lifecycle.Option) *Service {
	def := lifecycle.Definition[*Model, State]{
		Name:       ModelName,
		Descriptor: Descriptor,
		New:        func() *Model { return NewModel(cfg.Contamination) },
		Train: func(ctx context.Context) (*Model, lifecycle.Stats, error) {
			records, err := source.FetchReservations(ctx)
			if err != nil {
				return nil, lifecycle.Stats{}, err
			}
			stats := lifecycle.Stats{Samples: len(records)}
			model, err := Fit(ctx, records, cfg)
			if err != nil {
				return nil, stats, err
			}
			stats.FeatureNames = model.FeatureNames()
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
		manager: lifecycle.NewManager(def, store, logger, opts...),
		logger:  logger.With().Str("component", "anomaly").Logger(),
	}
}

// SetNotifier registers the receiver for detected anomalies.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Manager exposes the lifecycle manager for background trainers.
func (s *Service) Manager() *lifecycle.Manager[*Model, State] { return s.manager }

// Info describes the published model.
func (s *Service) Info() lifecycle.Info { return s.manager.Info() }

// Train trains the model unless it is already fitted and force is false.
func (s *Service) Train(ctx context.Context, force bool) (lifecycle.Result, error) {
	return s.manager.Train(ctx, force)
}

// Detect scores records. An unfitted model is trained once before scoring.
func (s *Service) Detect(ctx context.Context, records []features.Reservation) (*DetectResponse, error) {
	start := time.Now()

	var results []Prediction
	err := s.manager.WithModel(ctx, func(m *Model) error {
		var err error
		results, err = m.Predict(ctx, records)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordInference(ModelName, time.Since(start))

	var flagged []Flagged
	byRisk := make(map[string]int)
	for i, p := range results {
		if p.IsAnomaly {
			flagged = append(flagged, Flagged{Reservation: records[i], Prediction: p})
			byRisk[string(p.RiskLevel)]++
		}
	}
	metrics.RecordAnomalyBatch(len(results), byRisk)

	if len(flagged) > 0 {
		s.logger.Info().
			Int("total", len(results)).
			Int("anomalies", len(flagged)).
			Int("high", byRisk[string(RiskHigh)]).
			Msg("Anomalies detected")
		if s.notifier != nil {
			s.notifier.AnomaliesDetected(ctx, flagged)
		}
	}

	return &DetectResponse{
		TotalChecked:   len(results),
		AnomaliesFound: len(flagged),
		Results:        results,
		ModelVersion:   s.manager.Info().Version,
	}, nil
}
