// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/ticketai/internal/anomaly"
	"github.com/tomtom215/ticketai/internal/logging"
	"github.com/tomtom215/ticketai/internal/models"
)

// DetectAnomalies scores a batch of reservations. Features that depend on
// grouping (IP sharing, per-user counts) are computed within the batch.
func (h *Handler) DetectAnomalies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AnomalyDetectRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	resp, err := h.anomaly.Detect(r.Context(), req.Reservations)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if resp.AnomaliesFound > 0 {
		logging.Ctx(r.Context()).Info().
			Int("total_checked", resp.TotalChecked).
			Int("anomalies_found", resp.AnomaliesFound).
			Msg("Anomalies detected in batch")
	}

	respondSuccess(w, http.StatusOK, resp, start)
}

// TrainAnomaly starts background training and returns 202.
func (h *Handler) TrainAnomaly(w http.ResponseWriter, r *http.Request) {
	force := parseBoolParam(r, "force_retrain", false)
	h.trainInBackground(r.Context(), anomaly.ModelName, h.anomaly, force)
	respondSuccess(w, http.StatusAccepted, models.TrainAccepted{
		Model:        anomaly.ModelName,
		ForceRetrain: force,
		Message:      "Training started in background",
	}, time.Time{})
}

// AnomalyHealth reports the anomaly model status.
func (h *Handler) AnomalyHealth(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, modelHealth(h.anomaly.Info()), time.Time{})
}
