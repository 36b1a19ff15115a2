// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// stubService counts how often the supervisor starts it. It fails the first
// failures runs and then blocks until canceled.
type stubService struct {
	name     string
	failures int32
	starts   atomic.Int32
}

func (s *stubService) Serve(ctx context.Context) error {
	if n := s.starts.Add(1); n <= s.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }
