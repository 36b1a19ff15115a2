// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package gateway

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/tomtom215/ticketai/internal/features"
)

// Synthetic data volumes. Both comfortably exceed the engines' minimums.
const (
	syntheticUsers        = 100
	syntheticEvents       = 20
	syntheticInteractions = 500

	syntheticReservations  = 1000
	syntheticReservUsers   = 1000
	syntheticReservEvents  = 50
	syntheticReservTickets = 200
)

// Synthetic generates stand-in training data. Every call with the same seed
// returns the same data.
type Synthetic struct {
	seed uint64
}

// NewSynthetic creates a generator.
func NewSynthetic(seed uint64) *Synthetic {
	return &Synthetic{seed: seed}
}

// Interactions draws purchases of random events by random users, each
// weighted 1, 2 or 3. Duplicate pairs are left for the engine to sum.
func (s *Synthetic) Interactions() []features.Interaction {
	faker := gofakeit.New(s.seed)
	out := make([]features.Interaction, syntheticInteractions)
	for i := range out {
		out[i] = features.Interaction{
			UserID:  faker.Number(1, syntheticUsers),
			EventID: faker.Number(1, syntheticEvents),
			Score:   float64(faker.Number(1, 3)),
		}
	}
	return out
}

// Reservations draws reservations from a private /24 with realistic user
// agents.
func (s *Synthetic) Reservations() []features.Reservation {
	faker := gofakeit.New(s.seed)
	out := make([]features.Reservation, syntheticReservations)
	for i := range out {
		out[i] = features.Reservation{
			UserID:    faker.Number(1, syntheticReservUsers),
			EventID:   faker.Number(1, syntheticReservEvents),
			TicketID:  faker.Number(1, syntheticReservTickets),
			IPAddress: fmt.Sprintf("192.168.1.%d", faker.Number(1, 254)),
			UserAgent: faker.UserAgent(),
		}
	}
	return out
}
