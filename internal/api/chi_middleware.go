// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/ticketai/internal/models"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	// RateLimitRequests per RateLimitWindow applies to every /api/v1 route.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	RateLimitKeyFunc  httprate.KeyFunc

	// TrainRateLimitRequests per RateLimitWindow additionally caps the train
	// endpoints. Zero leaves them under the general limit only.
	TrainRateLimitRequests int
}

// DefaultChiMiddlewareConfig returns the configuration used when none is
// supplied. Origins default to any, matching the service's public API.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		CORSMaxAge:         86400,

		RateLimitRequests:      100,
		RateLimitWindow:        time.Minute,
		TrainRateLimitRequests: 5,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	return &ChiMiddleware{
		config: config,
		cors: cors.Handler(cors.Options{
			AllowedOrigins:   config.CORSAllowedOrigins,
			AllowedMethods:   config.CORSAllowedMethods,
			AllowedHeaders:   config.CORSAllowedHeaders,
			ExposedHeaders:   config.CORSExposedHeaders,
			AllowCredentials: config.CORSAllowCredentials,
			MaxAge:           config.CORSMaxAge,
		}),
	}
}

// CORS returns the go-chi/cors middleware. It must be global so that
// OPTIONS preflight requests are answered before routing.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits every /api/v1 request per client.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limiter(m.config.RateLimitRequests)
}

// TrainRateLimit limits how often one client may queue a training run.
// Each run refits a model from the full backend dataset.
func (m *ChiMiddleware) TrainRateLimit() func(http.Handler) http.Handler {
	return m.limiter(m.config.TrainRateLimitRequests)
}

func (m *ChiMiddleware) limiter(requests int) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled || requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	keyFunc := m.config.RateLimitKeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}

	return httprate.Limit(
		requests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(rateLimitExceeded(m.config.RateLimitWindow)),
	)
}

func rateLimitExceeded(window time.Duration) http.HandlerFunc {
	retryAfter := int(window.Round(time.Second) / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		respondErrorDetails(w, http.StatusTooManyRequests, models.ErrCodeRateLimited,
			"Too many requests, please slow down",
			map[string]interface{}{"retry_after_seconds": retryAfter}, nil)
	}
}
