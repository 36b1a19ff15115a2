// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ticketai/internal/lifecycle"
)

// Trainer is satisfied by *recommend.Service and *anomaly.Service.
type Trainer interface {
	Train(ctx context.Context, force bool) (lifecycle.Result, error)
}

// TrainingServiceConfig controls when a model is trained.
type TrainingServiceConfig struct {
	// Name identifies the model in logs and suture events.
	Name string

	// TrainOnStartup trains once when the service starts, unless a fitted
	// model was already loaded from disk.
	TrainOnStartup bool

	// TrainInterval forces a retrain on this period. Zero disables
	// scheduled training.
	TrainInterval time.Duration
}

// TrainingService runs startup and scheduled training for one model.
// Training failures are logged and never crash the service; the previously
// published model keeps serving.
type TrainingService struct {
	trainer Trainer
	config  TrainingServiceConfig
	logger  zerolog.Logger
}

// NewTrainingService creates a training service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTrainingService(trainer Trainer, cfg TrainingServiceConfig, logger zerolog.Logger) *TrainingService {
	return &TrainingService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", cfg.Name+"-training").Logger(),
	}
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("Training service starting")

	if s.config.TrainOnStartup {
		s.train(ctx, false)
	}

	if s.config.TrainInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Training service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.logger.Debug().Msg("Scheduled training triggered")
			s.train(ctx, true)
		}
	}
}

func (s *TrainingService) train(ctx context.Context, force bool) {
	res, err := s.trainer.Train(ctx, force)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Bool("force", force).Msg("Training failed, will retry on schedule")
		return
	}
	s.logger.Info().
		Str("outcome", string(res.Outcome)).
		Int("version", res.Version).
		Int("samples", res.Samples).
		Dur("duration", res.Duration).
		Msg("Training run finished")
}

// String implements fmt.Stringer for suture's logs.
func (s *TrainingService) String() string {
	return s.config.Name + "-training"
}
