// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/ticketai/internal/logging"
	"github.com/tomtom215/ticketai/internal/models"
	"github.com/tomtom215/ticketai/internal/recommend"
)

// Recommendations returns ranked events for one user.
//
// An omitted limit uses the configured default; an explicit limit outside
// [1, 50], including 0, is a validation error. Unknown users get
// popularity-ranked events flagged as cold start.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RecommendationRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	resp, err := h.recommend.Recommend(r.Context(), req.UserID, req.LimitOrZero())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Int("user_id", req.UserID).
		Int("count", len(resp.Recommendations)).
		Bool("cold_start", resp.ColdStart).
		Msg("Recommendations served")

	respondSuccess(w, http.StatusOK, resp, start)
}

// TrainRecommendations starts background training and returns 202.
func (h *Handler) TrainRecommendations(w http.ResponseWriter, r *http.Request) {
	force := parseBoolParam(r, "force_retrain", false)
	h.trainInBackground(r.Context(), recommend.ModelName, h.recommend, force)
	respondSuccess(w, http.StatusAccepted, models.TrainAccepted{
		Model:        recommend.ModelName,
		ForceRetrain: force,
		Message:      "Training started in background",
	}, time.Time{})
}

// RecommendationsHealth reports the recommendation model status.
func (h *Handler) RecommendationsHealth(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, modelHealth(h.recommend.Info()), time.Time{})
}
