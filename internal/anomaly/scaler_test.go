// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package anomaly

import (
	"math"
	"testing"
)

func TestFitScaler(t *testing.T) {
	t.Parallel()

	rows := [][]float64{{1, 5}, {2, 5}, {3, 5}, {4, 5}}
	s, err := FitScaler(rows)
	if err != nil {
		t.Fatalf("FitScaler() error = %v", err)
	}

	if s.Mean[0] != 2.5 || s.Mean[1] != 5 {
		t.Errorf("Mean = %v, want [2.5 5]", s.Mean)
	}
	// Population std of 1..4 is sqrt(1.25).
	if math.Abs(s.Scale[0]-math.Sqrt(1.25)) > 1e-12 {
		t.Errorf("Scale[0] = %v, want %v", s.Scale[0], math.Sqrt(1.25))
	}
	if s.Scale[1] != 1 {
		t.Errorf("constant column Scale = %v, want 1", s.Scale[1])
	}

	out := s.TransformAll(rows)
	var sum float64
	for _, r := range out {
		sum += r[0]
		if r[1] != 0 {
			t.Errorf("constant column transformed to %v, want 0", r[1])
		}
	}
	if math.Abs(sum) > 1e-12 {
		t.Errorf("standardized column sums to %v, want 0", sum)
	}
	if rows[0][0] != 1 {
		t.Error("Transform mutated its input")
	}
}

func TestFitScaler_Errors(t *testing.T) {
	t.Parallel()

	if _, err := FitScaler(nil); err == nil {
		t.Error("FitScaler(nil) expected error")
	}
	if _, err := FitScaler([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("FitScaler(ragged) expected error")
	}
}
