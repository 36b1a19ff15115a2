// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package models

import (
	"time"

	"github.com/tomtom215/ticketai/internal/features"
)

// RecommendationRequest is the body of POST /api/v1/recommendations.
// An omitted Limit uses the configured default; an explicit value must lie
// in [1, 50].
type RecommendationRequest struct {
	UserID int  `json:"user_id" validate:"gt=0"`
	Limit  *int `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

// LimitOrZero returns the requested limit, or 0 when it was omitted.
func (r *RecommendationRequest) LimitOrZero() int {
	if r.Limit == nil {
		return 0
	}
	return *r.Limit
}

// AnomalyDetectRequest is the body of POST /api/v1/anomaly/detect.
type AnomalyDetectRequest struct {
	Reservations []features.Reservation `json:"reservations" validate:"min=1,max=10000,dive"`
}

// TrainAccepted is returned with 202 when a background training run is queued.
type TrainAccepted struct {
	Model        string `json:"model"`
	ForceRetrain bool   `json:"force_retrain"`
	Message      string `json:"message"`
}

// ModelHealth is returned by the per-model health endpoints.
type ModelHealth struct {
	Status       string     `json:"status"`
	Model        string     `json:"model"`
	ModelLoaded  bool       `json:"model_loaded"`
	IsFitted     bool       `json:"is_fitted"`
	ModelVersion int        `json:"model_version"`
	TrainedAt    *time.Time `json:"trained_at,omitempty"`
	Samples      int        `json:"samples"`
	Source       string     `json:"source"`
}

// ServiceInfo is returned by GET /.
type ServiceInfo struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// Liveness is returned by GET /health.
type Liveness struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
