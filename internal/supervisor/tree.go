// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration. Zero fields take the
// values from DefaultTreeConfig.
type TreeConfig struct {
	// FailureThreshold is the failure count that puts a layer into backoff.
	FailureThreshold float64

	// FailureDecay is the half-life of the failure count, in seconds.
	FailureDecay float64

	// FailureBackoff is how long the messaging and api layers pause once the
	// threshold is crossed.
	FailureBackoff time.Duration

	// TrainingBackoff replaces FailureBackoff for the models layer. A trainer
	// that keeps crashing would otherwise refetch the backend dataset on
	// every restart.
	TrainingBackoff time.Duration

	// ShutdownTimeout bounds how long each service gets to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns the production supervision settings.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		TrainingBackoff:  time.Minute,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.TrainingBackoff == 0 {
		c.TrainingBackoff = d.TrainingBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec(backoff time.Duration) suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   backoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the TicketAI process tree:
//
//	ticketai
//	├── models-layer     periodic recommendation and anomaly training
//	├── messaging-layer  watermill event bus
//	└── api-layer        HTTP server
//
// Inference reads the last published model, so restarts in the models or
// messaging layers never interrupt requests.
type SupervisorTree struct {
	root      *suture.Supervisor
	models    *suture.Supervisor
	messaging *suture.Supervisor
	api       *suture.Supervisor
	config    TreeConfig
}

// NewSupervisorTree builds the tree. Supervisor events are logged through
// logger via sutureslog.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	config = config.withDefaults()

	rootSpec := config.spec(config.FailureBackoff)
	// MustHook has a pointer receiver. Children inherit the hook from root.
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &SupervisorTree{
		root:      suture.New("ticketai", rootSpec),
		models:    suture.New("models-layer", config.spec(config.TrainingBackoff)),
		messaging: suture.New("messaging-layer", config.spec(config.FailureBackoff)),
		api:       suture.New("api-layer", config.spec(config.FailureBackoff)),
		config:    config,
	}
	t.root.Add(t.models)
	t.root.Add(t.messaging)
	t.root.Add(t.api)
	return t, nil
}

// Root returns the root supervisor for direct access if needed.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddModelService adds a service to the models layer supervisor.
// Use this for the periodic training services.
func (t *SupervisorTree) AddModelService(svc suture.Service) suture.ServiceToken {
	return t.models.Add(svc)
}

// AddMessagingService adds a service to the messaging layer supervisor.
// Use this for the event bus.
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.messaging.Add(svc)
}

// AddAPIService adds a service to the API layer supervisor.
// Use this for the HTTP server.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve starts the supervisor tree and blocks until the context is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the supervisor tree in a background goroutine.
// The returned channel receives the tree's exit error (or nil) and is then
// closed, so callers may range over it.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	inner := t.root.ServeBackground(ctx)
	out := make(chan error, 1)
	go func() {
		defer close(out)
		out <- <-inner
	}()
	return out
}

// UnstoppedServiceReport returns the services that failed to stop within
// the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
