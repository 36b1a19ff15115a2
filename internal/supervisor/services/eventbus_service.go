// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package services

import (
	"context"
	"errors"
	"fmt"
)

var errBusStopped = errors.New("event bus stopped unexpectedly")

// Runner is a component whose Run blocks until ctx is canceled.
// Satisfied by *eventbus.Bus.
type Runner interface {
	Run(ctx context.Context) error
}

// EventBusService supervises the in-process event bus. A router failure is
// returned so suture restarts the bus with a fresh router.
type EventBusService struct {
	bus Runner
}

// NewEventBusService wraps bus for supervision.
func NewEventBusService(bus Runner) *EventBusService {
	return &EventBusService{bus: bus}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	if err := s.bus.Run(ctx); err != nil {
		return fmt.Errorf("event bus stopped: %w", err)
	}
	// A nil return without cancellation means the router closed itself.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errBusStopped
}

// String implements fmt.Stringer for suture's logs.
func (s *EventBusService) String() string {
	return "event-bus"
}
