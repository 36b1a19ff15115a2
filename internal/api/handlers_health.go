// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/models"
)

const serviceName = "TicketAI"

var endpoints = []string{
	"POST /api/v1/recommendations",
	"POST /api/v1/recommendations/train",
	"GET /api/v1/recommendations/health",
	"POST /api/v1/anomaly/detect",
	"POST /api/v1/anomaly/train",
	"GET /api/v1/anomaly/health",
	"GET /health",
	"GET /metrics",
}

// Root serves the service banner.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, models.ServiceInfo{
		Service:   serviceName,
		Version:   h.version,
		Endpoints: endpoints,
	}, time.Time{})
}

// Liveness reports that the process is serving HTTP. It never touches the
// models, so a slow training run cannot fail it.
func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, models.Liveness{
		Status: "healthy",
		Time:   time.Now().UTC(),
	}, time.Time{})
}

// NotFound answers unknown routes in the standard envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "No route for "+sanitizeLogValue(r.URL.Path), nil)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
}

// modelHealth converts lifecycle metadata into the health payload. An
// unfitted model is reported as degraded, not as an error.
func modelHealth(info lifecycle.Info) models.ModelHealth {
	health := models.ModelHealth{
		Status:       "healthy",
		Model:        info.Name,
		ModelLoaded:  info.Source != lifecycle.SourceEmpty,
		IsFitted:     info.Fitted,
		ModelVersion: info.Version,
		Samples:      info.Samples,
		Source:       string(info.Source),
	}
	if !info.Fitted {
		health.Status = "degraded"
	}
	if !info.TrainedAt.IsZero() {
		trainedAt := info.TrainedAt
		health.TrainedAt = &trainedAt
	}
	return health
}
