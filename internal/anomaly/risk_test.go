// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package anomaly

import (
	"slices"
	"testing"
)

func TestRiskLevelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{-0.9, RiskHigh},
		{-0.5, RiskMedium},
		{-0.3, RiskMedium},
		{-0.2, RiskLow},
		{0.1, RiskLow},
		{-1, RiskHigh},
		{-0.50001, RiskHigh},
		{-0.20001, RiskMedium},
	}
	for _, tt := range tests {
		if got := RiskLevelFor(tt.score); got != tt.want {
			t.Errorf("RiskLevelFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestReasons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Signals
		want []string
	}{
		{
			name: "normal record ignores other signals",
			in:   Signals{IsAnomaly: false, Score: -0.9, IPReservations: 50, UserReservations: 50},
			want: []string{ReasonNormal},
		},
		{
			name: "shared ip",
			in:   Signals{IsAnomaly: true, Score: -0.5, IPReservations: 11},
			want: []string{ReasonSharedIP},
		},
		{
			name: "all rules in order",
			in:   Signals{IsAnomaly: true, Score: -0.7, IPReservations: 12, UserReservations: 21},
			want: []string{ReasonSharedIP, ReasonExcessiveUser, ReasonPatternOutlier},
		},
		{
			name: "thresholds are strict",
			in:   Signals{IsAnomaly: true, Score: -0.6, IPReservations: 10, UserReservations: 20},
			want: []string{ReasonUnknown},
		},
		{
			name: "score only",
			in:   Signals{IsAnomaly: true, Score: -0.61},
			want: []string{ReasonPatternOutlier},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Reasons(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("Reasons() = %v, want %v", got, tt.want)
			}
		})
	}
}
