// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/recommend/algorithms"
	"github.com/tomtom215/ticketai/internal/storage"
)

// ModelName is the artifact and metrics name of the recommendation model.
const ModelName = "recommendation"

// ErrModelNotFitted is returned by Recommend on an unfitted model.
var ErrModelNotFitted = fmt.Errorf("%s: %w", ModelName, lifecycle.ErrNotFitted)

// Descriptor identifies persisted recommendation state.
var Descriptor = storage.Descriptor{Kind: "recommendation.user_knn", SchemaVersion: 1}

// Model is a fitted (or empty) user-KNN recommender. A fitted Model is never
// mutated and may be shared by concurrent readers.
type Model struct {
	matrix     *features.InteractionMatrix
	knn        *algorithms.UserKNN
	popularity *algorithms.Popularity
	nNeighbors int
	fitted     bool
}

// NewModel returns an unfitted model.
func NewModel(nNeighbors int) *Model {
	if nNeighbors < 1 {
		nNeighbors = algorithms.DefaultNeighbors
	}
	return &Model{nNeighbors: nNeighbors}
}

// IsFitted reports whether the model can serve recommendations.
func (m *Model) IsFitted() bool { return m != nil && m.fitted }

// Matrix returns the fitted interaction matrix, or nil.
func (m *Model) Matrix() *features.InteractionMatrix { return m.matrix }

// Fit builds a new model from raw interactions. Duplicate pairs are summed
// first; fewer than minInteractions distinct pairs is an InsufficientDataError.
func Fit(interactions []features.Interaction, nNeighbors, minInteractions int) (*Model, error) {
	agg, err := features.AggregateInteractions(interactions)
	if err != nil {
		return nil, err
	}
	if len(agg) < minInteractions {
		return nil, &features.InsufficientDataError{Have: len(agg), Need: minInteractions}
	}

	matrix, err := features.BuildInteractions(agg)
	if err != nil {
		return nil, err
	}
	return newFitted(matrix, nNeighbors), nil
}

func newFitted(matrix *features.InteractionMatrix, nNeighbors int) *Model {
	m := NewModel(nNeighbors)
	m.matrix = matrix
	m.knn = algorithms.NewUserKNN(matrix, m.nNeighbors)
	m.popularity = algorithms.NewPopularity(matrix)
	m.fitted = true
	return m
}

// Recommend ranks up to n events for userID. Users absent from the training
// matrix get the popularity ranking.
func (m *Model) Recommend(ctx context.Context, userID, n int) (Result, error) {
	if !m.IsFitted() {
		return Result{}, ErrModelNotFitted
	}

	row, ok := m.matrix.UserIndex(userID)
	if !ok {
		return Result{Items: m.popularity.TopN(n), ColdStart: true}, nil
	}

	items, err := m.knn.Recommend(ctx, row, n)
	if err != nil {
		return Result{}, err
	}
	return Result{Items: items}, nil
}

// State is the persisted form of a Model.
type State struct {
	UserIDs    []int
	EventIDs   []int
	Values     [][]float64
	NNeighbors int
	Fitted     bool
}

// Snapshot captures the model state for persistence.
func Snapshot(m *Model) *State {
	s := &State{NNeighbors: m.nNeighbors, Fitted: m.IsFitted()}
	if m.matrix != nil {
		s.UserIDs = m.matrix.UserIDs()
		s.EventIDs = m.matrix.EventIDs()
		s.Values = m.matrix.Values()
	}
	return s
}

// FromState rebuilds a model from persisted state.
func FromState(s *State) (*Model, error) {
	if !s.Fitted {
		return NewModel(s.NNeighbors), nil
	}
	matrix, err := features.NewInteractionMatrix(s.UserIDs, s.EventIDs, s.Values)
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", ModelName, err)
	}
	return newFitted(matrix, s.NNeighbors), nil
}
