// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package eventbus

import (
	"time"

	"github.com/tomtom215/ticketai/internal/anomaly"
	"github.com/tomtom215/ticketai/internal/lifecycle"
)

// Topic names.
const (
	TopicModelTrained    = "model.trained"
	TopicAnomalyDetected = "anomaly.detected"
)

// ModelTrained is the payload of TopicModelTrained.
type ModelTrained struct {
	Model     string    `json:"model"`
	Version   int       `json:"version"`
	Samples   int       `json:"samples"`
	TrainedAt time.Time `json:"trained_at"`
}

// AnomalyDetected is the payload of TopicAnomalyDetected.
type AnomalyDetected struct {
	UserID       int               `json:"user_id"`
	EventID      int               `json:"event_id"`
	TicketID     int               `json:"ticket_id"`
	IPAddress    string            `json:"ip_address,omitempty"`
	AnomalyScore float64           `json:"anomaly_score"`
	RiskLevel    anomaly.RiskLevel `json:"risk_level"`
	Reasons      []string          `json:"reasons"`
	DetectedAt   time.Time         `json:"detected_at"`
}

func modelTrainedFromInfo(info lifecycle.Info) ModelTrained {
	return ModelTrained{
		Model:     info.Name,
		Version:   info.Version,
		Samples:   info.Samples,
		TrainedAt: info.TrainedAt,
	}
}

func anomalyDetectedFromFlagged(f anomaly.Flagged, at time.Time) AnomalyDetected {
	return AnomalyDetected{
		UserID:       f.Reservation.UserID,
		EventID:      f.Reservation.EventID,
		TicketID:     f.Reservation.TicketID,
		IPAddress:    f.Reservation.IPAddress,
		AnomalyScore: f.Prediction.AnomalyScore,
		RiskLevel:    f.Prediction.RiskLevel,
		Reasons:      f.Prediction.Reasons,
		DetectedAt:   at,
	}
}
