// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/ticketai/internal/middleware"
)

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, config *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(config),
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to all routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(router.handler.NotFound)
	r.MethodNotAllowed(router.handler.MethodNotAllowed)

	r.Get("/", router.handler.Root)
	r.Get("/health", router.handler.Liveness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.chiMiddleware.RateLimit())

		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/", router.handler.Recommendations)
			r.With(router.chiMiddleware.TrainRateLimit()).Post("/train", router.handler.TrainRecommendations)
			r.Get("/health", router.handler.RecommendationsHealth)
		})

		r.Route("/anomaly", func(r chi.Router) {
			r.Post("/detect", router.handler.DetectAnomalies)
			r.With(router.chiMiddleware.TrainRateLimit()).Post("/train", router.handler.TrainAnomaly)
			r.Get("/health", router.handler.AnomalyHealth)
		})
	})

	return r
}
