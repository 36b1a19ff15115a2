// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/validation"
)

func intPtr(v int) *int { return &v }

func TestRecommendationRequestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     RecommendationRequest
		wantErr bool
	}{
		{"valid", RecommendationRequest{UserID: 1, Limit: intPtr(10)}, false},
		{"omitted limit", RecommendationRequest{UserID: 1}, false},
		{"max limit", RecommendationRequest{UserID: 1, Limit: intPtr(50)}, false},
		{"zero user", RecommendationRequest{UserID: 0, Limit: intPtr(10)}, true},
		{"negative user", RecommendationRequest{UserID: -4}, true},
		{"limit too high", RecommendationRequest{UserID: 1, Limit: intPtr(51)}, true},
		{"explicit zero limit", RecommendationRequest{UserID: 1, Limit: intPtr(0)}, true},
		{"negative limit", RecommendationRequest{UserID: 1, Limit: intPtr(-1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := validation.ValidateStruct(&tt.req)
			if (verr != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() = %v, wantErr %v", verr, tt.wantErr)
			}
		})
	}
}

func TestAnomalyDetectRequestValidation(t *testing.T) {
	t.Parallel()

	valid := features.Reservation{UserID: 1, EventID: 2, TicketID: 3, IPAddress: "10.0.0.1"}

	tests := []struct {
		name      string
		req       AnomalyDetectRequest
		wantField string
	}{
		{"valid", AnomalyDetectRequest{Reservations: []features.Reservation{valid}}, ""},
		{"empty", AnomalyDetectRequest{}, "reservations"},
		{"bad ticket", AnomalyDetectRequest{Reservations: []features.Reservation{valid, {UserID: 1, EventID: 2}}}, "reservations[1].ticket_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := validation.ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			if got := verr.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestAnomalyDetectRequestDecode(t *testing.T) {
	t.Parallel()

	body := `{"reservations":[{"user_id":7,"event_id":3,"ticket_id":41,"ip_address":"192.168.1.9"},{"user_id":8,"event_id":3,"ticket_id":42}]}`
	var req AnomalyDetectRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}
	if len(req.Reservations) != 2 {
		t.Fatalf("got %d reservations", len(req.Reservations))
	}
	if req.Reservations[0].IPAddress != "192.168.1.9" || req.Reservations[1].IPAddress != "" {
		t.Errorf("reservations = %+v", req.Reservations)
	}
}

func TestAPIResponseOmitsEmptyError(t *testing.T) {
	t.Parallel()

	resp := APIResponse{
		Status:   StatusSuccess,
		Data:     Liveness{Status: "ok", Time: time.Unix(0, 0).UTC()},
		Metadata: Metadata{Timestamp: time.Unix(0, 0).UTC()},
	}
	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), `"error"`) {
		t.Errorf("success envelope should omit error: %s", out)
	}
	if strings.Contains(string(out), "query_time_ms") {
		t.Errorf("zero query time should be omitted: %s", out)
	}
}
