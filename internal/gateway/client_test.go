// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const reservationsBody = `{"data":[
	{"userId":1,"ticketId":10,"ticket":{"eventId":5},"ipAddress":"10.0.0.1","userAgent":"curl/8"},
	{"userId":2,"ticketId":11,"ticket":{"eventId":6}}
]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL + "/"
	cfg.FetchTimeout = 2 * time.Second
	cfg.EventTimeout = 200 * time.Millisecond
	return NewClient(cfg)
}

func TestClient_FetchReservations(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/reservations/all" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reservationsBody))
	})

	got, err := c.FetchReservations(context.Background())
	if err != nil {
		t.Fatalf("FetchReservations() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reservations, want 2", len(got))
	}
	if got[0].UserID != 1 || got[0].EventID != 5 || got[0].TicketID != 10 || got[0].IPAddress != "10.0.0.1" || got[0].UserAgent != "curl/8" {
		t.Errorf("reservation[0] = %+v", got[0])
	}
	if got[1].IPAddress != "" || got[1].EventID != 6 {
		t.Errorf("reservation[1] = %+v", got[1])
	}
}

func TestClient_FetchReservationsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, http.StatusInternalServerError},
		{"malformed json", http.StatusOK, `{"data":[`, http.StatusOK},
		{"missing data", http.StatusOK, `{"items":[]}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchReservations(context.Background())
			var ufe *UpstreamFetchError
			if !errors.As(err, &ufe) {
				t.Fatalf("error = %v, want UpstreamFetchError", err)
			}
			if ufe.Op != OpFetchReservations || ufe.Status != tt.wantStatus {
				t.Errorf("UpstreamFetchError = %+v", ufe)
			}
		})
	}
}

func TestClient_FetchEventDetails(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/events/7":
			_, _ = w.Write([]byte(`{"data":{"title":"Jazz Night"}}`))
		case "/api/v1/events/8":
			time.Sleep(time.Second)
		default:
			http.NotFound(w, r)
		}
	})

	details, err := c.FetchEventDetails(context.Background(), 7)
	if err != nil {
		t.Fatalf("FetchEventDetails(7) error = %v", err)
	}
	if details.Title != "Jazz Night" || details.ID != 7 {
		t.Errorf("details = %+v", details)
	}

	_, err = c.FetchEventDetails(context.Background(), 9)
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("FetchEventDetails(9) error = %v, want ErrEventNotFound", err)
	}

	_, err = c.FetchEventDetails(context.Background(), 8)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("FetchEventDetails(8) error = %v, want deadline exceeded", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = url
	_, err := NewClient(cfg).FetchReservations(context.Background())
	var ufe *UpstreamFetchError
	if !errors.As(err, &ufe) || ufe.Status != 0 {
		t.Fatalf("error = %v, want transport UpstreamFetchError", err)
	}
}
