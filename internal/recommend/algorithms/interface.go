// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package algorithms implements the ranking primitives used by the
// recommendation engine.
//
//   - NeighborIndex: exhaustive cosine-similarity search over user rows.
//   - UserKNN: user-based collaborative filtering on top of the index.
//   - Popularity: global ranking by total interaction weight (cold start).
//
// All types are immutable after construction and safe for concurrent use.
package algorithms

import (
	"context"
	"math"
	"sort"
)

// ScoredEvent is an event with a ranking score.
type ScoredEvent struct {
	EventID int     `json:"event_id"`
	Score   float64 `json:"score"`
}

// sortScored orders by score descending, event ID ascending on ties.
func sortScored(items []ScoredEvent) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].EventID < items[j].EventID
	})
}

// topNormalized truncates a sorted slice to n and divides every score by the
// largest one, so the first item scores exactly 1.0.
func topNormalized(sorted []ScoredEvent, n int) []ScoredEvent {
	if n <= 0 || len(sorted) == 0 {
		return []ScoredEvent{}
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]ScoredEvent, n)
	copy(out, sorted[:n])

	maxScore := out[0].Score
	if maxScore <= 0 {
		return out
	}
	for i := range out {
		out[i].Score /= maxScore
	}
	out[0].Score = 1.0
	return out
}

// cosineSimilarity computes the cosine of the angle between two dense
// vectors. Zero vectors have similarity 0 with everything.
func cosineSimilarity(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// ContextCancelled checks if the context has been cancelled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
