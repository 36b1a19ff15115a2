// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package recommend

import (
	"time"

	"github.com/tomtom215/ticketai/internal/recommend/algorithms"
)

// Result is the raw output of Model.Recommend.
type Result struct {
	Items     []algorithms.ScoredEvent
	ColdStart bool
}

// Recommendation is one ranked event in a response.
type Recommendation struct {
	EventID int     `json:"event_id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason"`
}

// Response is the enriched recommendation list returned to API clients.
type Response struct {
	UserID          int              `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
	ColdStart       bool             `json:"cold_start"`
	ModelVersion    int              `json:"model_version"`
}
