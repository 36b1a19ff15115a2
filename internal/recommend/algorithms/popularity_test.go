// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package algorithms

import (
	"testing"

	"github.com/tomtom215/ticketai/internal/features"
)

func TestPopularity_TopN(t *testing.T) {
	t.Parallel()

	m := buildMatrix(t, []features.Interaction{
		{UserID: 1, EventID: 30, Score: 2},
		{UserID: 2, EventID: 30, Score: 2},
		{UserID: 1, EventID: 10, Score: 2},
		{UserID: 3, EventID: 20, Score: 2},
		{UserID: 3, EventID: 40, Score: 1},
		{UserID: 2, EventID: 50, Score: 0},
	})
	p := NewPopularity(m)

	tests := []struct {
		name string
		n    int
		want []ScoredEvent
	}{
		{
			name: "ties broken by event id",
			n:    3,
			want: []ScoredEvent{{30, 1.0}, {10, 0.5}, {20, 0.5}},
		},
		{
			name: "n larger than catalog includes unweighted events",
			n:    50,
			want: []ScoredEvent{{30, 1.0}, {10, 0.5}, {20, 0.5}, {40, 0.25}, {50, 0}},
		},
		{
			name: "zero n",
			n:    0,
			want: []ScoredEvent{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := p.TopN(tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("TopN(%d) = %+v, want %+v", tt.n, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("TopN(%d)[%d] = %+v, want %+v", tt.n, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPopularity_AllZeroWeights(t *testing.T) {
	t.Parallel()

	m := buildMatrix(t, []features.Interaction{
		{UserID: 1, EventID: 7, Score: 0},
		{UserID: 2, EventID: 3, Score: 0},
	})
	got := NewPopularity(m).TopN(5)
	want := []ScoredEvent{{3, 0}, {7, 0}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("TopN(5) = %+v, want %+v", got, want)
	}
}

func TestPopularity_DoesNotMutateRanking(t *testing.T) {
	t.Parallel()

	m := buildMatrix(t, []features.Interaction{
		{UserID: 1, EventID: 1, Score: 4},
		{UserID: 1, EventID: 2, Score: 2},
	})
	p := NewPopularity(m)
	_ = p.TopN(2)
	got := p.TopN(2)
	if got[0].Score != 1.0 || got[1].Score != 0.5 {
		t.Errorf("second TopN() = %+v, want scores 1.0 and 0.5", got)
	}
}
