// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package anomaly

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/storage"
)

// ModelName is the artifact and metrics name of the anomaly model.
const ModelName = "anomaly"

// ErrModelNotFitted is returned by Predict on an unfitted model.
var ErrModelNotFitted = fmt.Errorf("%s: %w", ModelName, lifecycle.ErrNotFitted)

// Descriptor identifies persisted anomaly state.
var Descriptor = storage.Descriptor{Kind: "anomaly.isolation_forest", SchemaVersion: 1}

// Prediction is the verdict for one reservation.
type Prediction struct {
	UserID       int       `json:"user_id"`
	IsAnomaly    bool      `json:"is_anomaly"`
	AnomalyScore float64   `json:"anomaly_score"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Reasons      []string  `json:"reasons"`
}

// Model is a fitted (or empty) anomaly detector. A fitted Model is never
// mutated and may be shared by concurrent readers.
type Model struct {
	builder       *features.Builder
	scaler        *Scaler
	forest        *Forest
	featureNames  []string
	threshold     float64
	contamination float64
	fitted        bool
}

// NewModel returns an unfitted model.
func NewModel(contamination float64) *Model {
	return &Model{builder: features.DefaultBuilder(), contamination: contamination}
}

// IsFitted reports whether the model can score reservations.
func (m *Model) IsFitted() bool { return m != nil && m.fitted }

// FeatureNames returns the fitted schema.
func (m *Model) FeatureNames() []string { return append([]string(nil), m.featureNames...) }

// Threshold is the score below which a record is labelled anomalous.
func (m *Model) Threshold() float64 { return m.threshold }

// Fit trains a detector on records. Fewer than cfg.MinRecords records is an
// InsufficientDataError.
func Fit(ctx context.Context, records []features.Reservation, cfg Config) (*Model, error) {
	return fit(ctx, features.DefaultBuilder(), records, cfg)
}

func fit(ctx context.Context, builder *features.Builder, records []features.Reservation, cfg Config) (*Model, error) {
	if len(records) < cfg.MinRecords {
		return nil, &features.InsufficientDataError{Have: len(records), Need: cfg.MinRecords}
	}

	table, err := builder.Build(records, nil)
	if err != nil {
		return nil, err
	}
	scaler, err := FitScaler(table.Rows)
	if err != nil {
		return nil, err
	}
	scaled := scaler.TransformAll(table.Rows)

	forest, err := FitForest(ctx, scaled, ForestConfig{
		NEstimators: cfg.NEstimators,
		MaxSamples:  cfg.MaxSamples,
		Seed:        cfg.RandomSeed,
	})
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", ModelName, err)
	}

	scores := make([]float64, len(scaled))
	for i, x := range scaled {
		scores[i] = forest.Score(x)
	}

	return &Model{
		builder:       builder,
		scaler:        scaler,
		forest:        forest,
		featureNames:  table.Columns,
		threshold:     percentile(scores, cfg.Contamination*100),
		contamination: cfg.Contamination,
		fitted:        true,
	}, nil
}

// Predict scores a batch. Features are computed over the batch itself and
// must match the fitted schema exactly.
func (m *Model) Predict(ctx context.Context, records []features.Reservation) ([]Prediction, error) {
	if !m.IsFitted() {
		return nil, ErrModelNotFitted
	}
	if len(records) == 0 {
		return []Prediction{}, nil
	}

	table, err := m.builder.Build(records, m.featureNames)
	if err != nil {
		return nil, err
	}
	ipCol := table.Column(features.IPReservationCount)
	userCol := table.Column(features.UserReservationCount)

	out := make([]Prediction, len(records))
	for i, row := range table.Rows {
		if i%1024 == 1023 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		score := m.forest.Score(m.scaler.Transform(row))
		isAnomaly := score < m.threshold
		out[i] = Prediction{
			UserID:       records[i].UserID,
			IsAnomaly:    isAnomaly,
			AnomalyScore: score,
			RiskLevel:    RiskLevelFor(score),
			Reasons: Reasons(Signals{
				IsAnomaly:        isAnomaly,
				Score:            score,
				IPReservations:   column(row, ipCol),
				UserReservations: column(row, userCol),
			}),
		}
	}
	return out, nil
}

func column(row []float64, i int) float64 {
	if i < 0 {
		return 0
	}
	return row[i]
}

// State is the persisted form of a Model.
type State struct {
	Scaler        Scaler
	Forest        Forest
	FeatureNames  []string
	Threshold     float64
	Contamination float64
	Fitted        bool
}

// Snapshot captures the model state for persistence.
func Snapshot(m *Model) *State {
	s := &State{
		FeatureNames:  m.FeatureNames(),
		Threshold:     m.threshold,
		Contamination: m.contamination,
		Fitted:        m.IsFitted(),
	}
	if m.scaler != nil {
		s.Scaler = *m.scaler
	}
	if m.forest != nil {
		s.Forest = *m.forest
	}
	return s
}

// FromState rebuilds a model from persisted state.
func FromState(s *State) (*Model, error) {
	if !s.Fitted {
		return NewModel(s.Contamination), nil
	}
	if len(s.Forest.Trees) == 0 {
		return nil, errors.New("restore anomaly: forest has no trees")
	}
	if s.Scaler.Width() != len(s.FeatureNames) {
		return nil, fmt.Errorf("restore anomaly: scaler width %d for %d features", s.Scaler.Width(), len(s.FeatureNames))
	}

	builder := features.DefaultBuilder()
	if !slices.Equal(builder.Schema(), s.FeatureNames) {
		return nil, &features.SchemaMismatchError{Expected: builder.Schema(), Got: s.FeatureNames}
	}

	scaler := s.Scaler
	forest := s.Forest
	return &Model{
		builder:       builder,
		scaler:        &scaler,
		forest:        &forest,
		featureNames:  append([]string(nil), s.FeatureNames...),
		threshold:     s.Threshold,
		contamination: s.Contamination,
		fitted:        true,
	}, nil
}
