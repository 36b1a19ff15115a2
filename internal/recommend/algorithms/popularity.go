// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package algorithms

import "github.com/tomtom215/ticketai/internal/features"

// Popularity ranks events by their total interaction weight across all
// users. It serves users that are absent from the training matrix.
//
//	score(event) = sum of the event's column
//
// Events with zero total weight rank last with score 0, so a large n can
// still return every known event.
type Popularity struct {
	ranked []ScoredEvent
}

// NewPopularity computes the ranking for m.
func NewPopularity(m *features.InteractionMatrix) *Popularity {
	sums := m.ColumnSums()
	ranked := make([]ScoredEvent, 0, len(sums))
	for j, s := range sums {
		ranked = append(ranked, ScoredEvent{EventID: m.EventAt(j), Score: s})
	}
	sortScored(ranked)
	return &Popularity{ranked: ranked}
}

// TopN returns the n most popular events, max-normalized so the first
// scores 1.0.
func (p *Popularity) TopN(n int) []ScoredEvent {
	return topNormalized(p.ranked, n)
}

// Len returns the number of ranked events.
func (p *Popularity) Len() int { return len(p.ranked) }
