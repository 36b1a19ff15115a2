// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/ticketai/internal/models"
)

func TestNewChiMiddleware_DefaultConfig(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(nil)
	if m.config == nil {
		t.Fatal("config is nil")
	}
	if len(m.config.CORSAllowedOrigins) != 1 || m.config.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, want [*]", m.config.CORSAllowedOrigins)
	}
	if m.config.RateLimitRequests != 100 || m.config.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d/%v, want 100/1m", m.config.RateLimitRequests, m.config.RateLimitWindow)
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://tickets.example.com"}
	cfg.RateLimitDisabled = true
	router, _ := newTestRouter(t, &fakeRecommender{}, &fakeDetector{}, cfg)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://tickets.example.com", "https://tickets.example.com"},
		{"https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations", http.NoBody)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	router, _ := newTestRouter(t, &fakeRecommender{}, &fakeDetector{}, cfg)

	for i := 0; i < 2; i++ {
		resp, _ := do(t, router, http.MethodGet, "/api/v1/anomaly/health", "")
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, resp.Code)
		}
	}

	resp, env := do(t, router, http.MethodGet, "/api/v1/anomaly/health", "")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.Code)
	}
	if env.Error == nil || env.Error.Code != models.ErrCodeRateLimited {
		t.Errorf("error = %+v, want %s", env.Error, models.ErrCodeRateLimited)
	}

	// Liveness sits outside the limited group.
	if resp, _ := do(t, router, http.MethodGet, "/health", ""); resp.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", resp.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitDisabled = true
	router, _ := newTestRouter(t, &fakeRecommender{}, &fakeDetector{}, cfg)

	for i := 0; i < 5; i++ {
		if resp, _ := do(t, router, http.MethodGet, "/api/v1/recommendations/health", ""); resp.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, resp.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeRecommender{}, &fakeDetector{}, nil)
	do(t, router, http.MethodGet, "/api/v1/recommendations/health", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing Go runtime collector")
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"line\nbreak", `line\x0abreak`},
		{"tab\there", `tab\x09here`},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrainRateLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 100
	cfg.TrainRateLimitRequests = 1
	cfg.RateLimitWindow = time.Minute
	router, h := newTestRouter(t, &fakeRecommender{}, &fakeDetector{}, cfg)

	if resp, _ := do(t, router, http.MethodPost, "/api/v1/anomaly/train", ""); resp.Code != http.StatusAccepted {
		t.Fatalf("first train status = %d, want 202", resp.Code)
	}
	h.Wait()

	resp, env := do(t, router, http.MethodPost, "/api/v1/anomaly/train", "")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second train status = %d, want 429", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
	if env.Error == nil || env.Error.Details["retry_after_seconds"] != float64(60) {
		t.Errorf("error details = %+v, want retry_after_seconds 60", env.Error)
	}

	// Detection stays under the general limit.
	if resp, _ := do(t, router, http.MethodGet, "/api/v1/anomaly/health", ""); resp.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.Code)
	}
}
