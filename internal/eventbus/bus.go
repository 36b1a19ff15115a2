// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ticketai/internal/anomaly"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/logging"
	"github.com/tomtom215/ticketai/internal/metrics"
)

// ErrNotRunning is returned by publish calls made while no router is active.
var ErrNotRunning = errors.New("event bus not running")

// Config holds event bus settings.
type Config struct {
	// OutputChannelBuffer is the per-subscriber GoChannel buffer.
	OutputChannelBuffer int64

	// CloseTimeout bounds how long the router waits for handlers on shutdown.
	CloseTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		OutputChannelBuffer: 256,
		CloseTimeout:        10 * time.Second,
	}
}

// Bus publishes domain events and runs the handlers that consume them.
// A Router cannot be restarted once closed, so every Run builds a fresh
// GoChannel and Router; publishes outside a Run are dropped.
type Bus struct {
	cfg      Config
	logger   zerolog.Logger
	wmLogger watermill.LoggerAdapter
	now      func() time.Time

	highRisk *HighRiskHandler
	audit    *TrainingAuditHandler

	mu     sync.RWMutex
	pubsub *gochannel.GoChannel

	readyOnce sync.Once
	ready     chan struct{}
}

// New creates a bus. Call Run to start consuming.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, logger zerolog.Logger) *Bus {
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = DefaultConfig().CloseTimeout
	}
	wmLogger := logging.NewWatermillLogger(logger.With().Str("component", "eventbus").Logger())
	return &Bus{
		cfg:      cfg,
		logger:   logger.With().Str("component", "eventbus").Logger(),
		wmLogger: wmLogger,
		now:      time.Now,
		highRisk: NewHighRiskHandler(wmLogger),
		audit:    NewTrainingAuditHandler(wmLogger),
		ready:    make(chan struct{}),
	}
}

// Ready is closed the first time the router reports it is running.
func (b *Bus) Ready() <-chan struct{} {
	return b.ready
}

// HighRisk returns the HIGH risk handler for stats inspection.
func (b *Bus) HighRisk() *HighRiskHandler { return b.highRisk }

// Audit returns the training audit handler for stats inspection.
func (b *Bus) Audit() *TrainingAuditHandler { return b.audit }

// Run starts a router and blocks until ctx is cancelled or the router fails.
func (b *Bus) Run(ctx context.Context) error {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: b.cfg.OutputChannelBuffer,
	}, b.wmLogger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: b.cfg.CloseTimeout}, b.wmLogger)
	if err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("create router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddNoPublisherHandler("training-audit", TopicModelTrained, pubsub, b.audit.Handle)
	router.AddNoPublisherHandler("high-risk-anomalies", TopicAnomalyDetected, pubsub, b.highRisk.Handle)

	b.mu.Lock()
	b.pubsub = pubsub
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.pubsub = nil
		b.mu.Unlock()
		_ = pubsub.Close()
	}()

	go func() {
		select {
		case <-router.Running():
			b.readyOnce.Do(func() { close(b.ready) })
			b.logger.Info().Msg("Event bus router running")
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("run router: %w", err)
	}
	return nil
}

// Publish marshals payload and publishes it on topic with a fresh UUID.
func (b *Bus) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordEventPublished(topic, err)
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	msg := message.NewMessage(uuid.New().String(), body)

	b.mu.RLock()
	pubsub := b.pubsub
	b.mu.RUnlock()
	if pubsub == nil {
		metrics.RecordEventPublished(topic, ErrNotRunning)
		return ErrNotRunning
	}

	err = pubsub.Publish(topic, msg)
	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// ModelTrained publishes a model.trained event. Its signature matches
// lifecycle.WithTrainedHook.
func (b *Bus) ModelTrained(info lifecycle.Info) {
	if err := b.Publish(TopicModelTrained, modelTrainedFromInfo(info)); err != nil {
		b.logger.Debug().Err(err).Str("model", info.Name).Msg("Dropped model.trained event")
	}
}

// AnomaliesDetected publishes one anomaly.detected event per flagged
// reservation. It implements anomaly.Notifier.
func (b *Bus) AnomaliesDetected(_ context.Context, flagged []anomaly.Flagged) {
	at := b.now().UTC()
	for _, f := range flagged {
		if err := b.Publish(TopicAnomalyDetected, anomalyDetectedFromFlagged(f, at)); err != nil {
			b.logger.Debug().Err(err).Int("user_id", f.Reservation.UserID).Msg("Dropped anomaly.detected event")
			return
		}
	}
}

var _ anomaly.Notifier = (*Bus)(nil)
