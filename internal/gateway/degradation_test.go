// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ticketai/internal/anomaly"
	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/gateway"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/recommend"
	"github.com/tomtom215/ticketai/internal/storage"
)

// failingGateway points at a backend that always answers 503.
func failingGateway(t *testing.T) *gateway.Gateway {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cfg := gateway.DefaultConfig()
	cfg.BaseURL = srv.URL
	return gateway.New(gateway.NewClient(cfg), gateway.NewSynthetic(cfg.SyntheticSeed), nil, zerolog.Nop())
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestTrainingSurvivesBackendOutage(t *testing.T) {
	t.Parallel()

	gw := failingGateway(t)

	t.Run("recommendation", func(t *testing.T) {
		svc := recommend.NewService(recommend.DefaultConfig(), newStore(t), gw, gw, zerolog.Nop())
		res, err := svc.Train(context.Background(), false)
		if err != nil {
			t.Fatalf("Train() error = %v", err)
		}
		if res.Outcome != lifecycle.OutcomeTrained || !svc.Info().Fitted {
			t.Fatalf("Train() = %+v, fitted = %v", res, svc.Info().Fitted)
		}

		resp, err := svc.Recommend(context.Background(), 1, 5)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		for _, r := range resp.Recommendations {
			if r.Title != gateway.PlaceholderTitle(r.EventID) {
				t.Errorf("title = %q, want placeholder", r.Title)
			}
		}
	})

	t.Run("anomaly", func(t *testing.T) {
		svc := anomaly.NewService(anomaly.DefaultConfig(), newStore(t), gw, zerolog.Nop())
		res, err := svc.Train(context.Background(), false)
		if err != nil {
			t.Fatalf("Train() error = %v", err)
		}
		if res.Outcome != lifecycle.OutcomeTrained || !svc.Info().Fitted {
			t.Fatalf("Train() = %+v, fitted = %v", res, svc.Info().Fitted)
		}

		resp, err := svc.Detect(context.Background(), []features.Reservation{
			{UserID: 1, EventID: 1, TicketID: 1, IPAddress: "192.168.1.10"},
		})
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if resp.TotalChecked != 1 {
			t.Errorf("TotalChecked = %d, want 1", resp.TotalChecked)
		}
	})
}
