// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package algorithms

import (
	"context"
	"sort"

	"github.com/tomtom215/ticketai/internal/features"
)

// DefaultNeighbors is the default neighborhood size.
const DefaultNeighbors = 10

// Neighbor is a matrix row with its cosine similarity to the query row.
type Neighbor struct {
	Row        int
	Similarity float64
}

// NeighborIndex answers k-nearest-neighbor queries over the rows of an
// interaction matrix using cosine similarity and brute-force search.
type NeighborIndex struct {
	matrix *features.InteractionMatrix
	norms  []float64
}

// NewNeighborIndex precomputes row norms for m.
func NewNeighborIndex(m *features.InteractionMatrix) *NeighborIndex {
	norms := make([]float64, m.Rows())
	for i := range norms {
		norms[i] = norm(m.Row(i))
	}
	return &NeighborIndex{matrix: m, norms: norms}
}

// Neighbors returns the k rows most similar to row, never including row
// itself. Ties are broken by row index so results are deterministic.
func (x *NeighborIndex) Neighbors(ctx context.Context, row, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}
	query := x.matrix.Row(row)

	out := make([]Neighbor, 0, x.matrix.Rows()-1)
	for i := 0; i < x.matrix.Rows(); i++ {
		if i == row {
			continue
		}
		if i%1024 == 1023 && ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		out = append(out, Neighbor{
			Row:        i,
			Similarity: cosineSimilarity(query, x.matrix.Row(i), x.norms[row], x.norms[i]),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Row < out[j].Row
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// UserKNN implements user-based collaborative filtering.
//
// For a target user u with neighbors N(u):
//
//	score(e) = sum_{v in N(u)} r(v, e)   for every e with r(u, e) == 0
//
// Scores are then max-normalized over the returned top n. The neighborhood
// size k counts the user's own row, which is then dropped, so k-1 other
// users contribute.
type UserKNN struct {
	index *NeighborIndex
	k     int
}

// NewUserKNN builds a recommender over m with neighborhood size k.
func NewUserKNN(m *features.InteractionMatrix, k int) *UserKNN {
	if k <= 0 {
		k = DefaultNeighbors
	}
	return &UserKNN{index: NewNeighborIndex(m), k: k}
}

// K returns the neighborhood size.
func (u *UserKNN) K() int { return u.k }

// Recommend ranks events for the user in matrix row `row`. Events the user
// already interacted with are never returned. An empty result is valid.
func (u *UserKNN) Recommend(ctx context.Context, row, n int) ([]ScoredEvent, error) {
	neighbors, err := u.index.Neighbors(ctx, row, u.k-1)
	if err != nil {
		return nil, err
	}

	m := u.index.matrix
	own := m.Row(row)
	totals := make(map[int]float64)
	for _, nb := range neighbors {
		for j, v := range m.Row(nb.Row) {
			if v > 0 && own[j] == 0 {
				totals[m.EventAt(j)] += v
			}
		}
	}

	scored := make([]ScoredEvent, 0, len(totals))
	for id, s := range totals {
		scored = append(scored, ScoredEvent{EventID: id, Score: s})
	}
	sortScored(scored)
	return topNormalized(scored, n), nil
}
