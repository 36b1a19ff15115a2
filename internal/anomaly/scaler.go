// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package anomaly

import (
	"errors"
	"fmt"
	"math"
)

// Scaler standardizes columns to zero mean and unit variance.
// Fields are exported for gob.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler learns per-column mean and population standard deviation.
// Constant columns get a scale of 1 so they map to 0.
func FitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("fit scaler: no rows")
	}
	width := len(rows[0])
	s := &Scaler{Mean: make([]float64, width), Scale: make([]float64, width)}

	for _, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("fit scaler: ragged row of width %d, want %d", len(row), width)
		}
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Scale[j] += d * d
		}
	}
	for j := range s.Scale {
		s.Scale[j] = math.Sqrt(s.Scale[j] / n)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return s, nil
}

// Width is the number of columns the scaler was fitted on.
func (s *Scaler) Width() int { return len(s.Mean) }

// Transform returns a standardized copy of row.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// TransformAll standardizes every row.
func (s *Scaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
