// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package features

import (
	"errors"
	"fmt"
	"sort"
)

// Interaction is a weighted (user, event) observation.
type Interaction struct {
	UserID  int     `json:"user_id"`
	EventID int     `json:"event_id"`
	Score   float64 `json:"interaction_score"`
}

// Reservation is a raw reservation record as supplied by the backend or an
// inference request. IPAddress and UserAgent are optional; an empty string
// means the field was not present.
type Reservation struct {
	UserID    int    `json:"user_id" validate:"gt=0"`
	EventID   int    `json:"event_id" validate:"gt=0"`
	TicketID  int    `json:"ticket_id" validate:"gt=0"`
	IPAddress string `json:"ip_address,omitempty" validate:"omitempty,max=64"`
	UserAgent string `json:"user_agent,omitempty" validate:"omitempty,max=512"`
}

// ErrInsufficientData is matched by every *InsufficientDataError.
var ErrInsufficientData = errors.New("insufficient training data")

// ErrNegativeScore is returned when an interaction carries a negative weight.
var ErrNegativeScore = errors.New("interaction score must be non-negative")

// InsufficientDataError reports that a training set is below the minimum
// volume an engine accepts. Callers treat it as "skip training".
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: have %d, need at least %d", ErrInsufficientData, e.Have, e.Need)
}

// Is makes errors.Is(err, ErrInsufficientData) match.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

type pairKey struct {
	user  int
	event int
}

// AggregateInteractions sums the scores of duplicate (user, event) pairs.
// The result is ordered by user ID, then event ID.
func AggregateInteractions(records []Interaction) ([]Interaction, error) {
	totals := make(map[pairKey]float64, len(records))
	for _, r := range records {
		if r.Score < 0 {
			return nil, fmt.Errorf("user %d event %d: %w", r.UserID, r.EventID, ErrNegativeScore)
		}
		totals[pairKey{r.UserID, r.EventID}] += r.Score
	}

	out := make([]Interaction, 0, len(totals))
	for k, score := range totals {
		out = append(out, Interaction{UserID: k.user, EventID: k.event, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}

// InteractionsFromReservations converts reservations into unit-weight
// interactions, one per reservation. Use AggregateInteractions afterwards
// to collapse repeat purchases.
func InteractionsFromReservations(reservations []Reservation) []Interaction {
	out := make([]Interaction, len(reservations))
	for i, r := range reservations {
		out[i] = Interaction{UserID: r.UserID, EventID: r.EventID, Score: 1.0}
	}
	return out
}
