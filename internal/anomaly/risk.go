// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package anomaly

// RiskLevel is a coarse bucket over the anomaly score.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Reason texts.
const (
	ReasonNormal         = "normal pattern"
	ReasonSharedIP       = "many reservations from same IP"
	ReasonExcessiveUser  = "excessive reservations by single user"
	ReasonPatternOutlier = "overall pattern deviation"
	ReasonUnknown        = "unknown anomalous pattern"
)

// RiskLevelFor buckets a score. Boundaries belong to the lower-risk tier:
// -0.5 is MEDIUM and -0.2 is LOW.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score < -0.5:
		return RiskHigh
	case score < -0.2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Signals are the per-record values the reason rules look at.
type Signals struct {
	IsAnomaly        bool
	Score            float64
	IPReservations   float64
	UserReservations float64
}

// Reasons explains a prediction. Every matching rule contributes.
func Reasons(s Signals) []string {
	if !s.IsAnomaly {
		return []string{ReasonNormal}
	}

	var reasons []string
	if s.IPReservations > 10 {
		reasons = append(reasons, ReasonSharedIP)
	}
	if s.UserReservations > 20 {
		reasons = append(reasons, ReasonExcessiveUser)
	}
	if s.Score < -0.6 {
		reasons = append(reasons, ReasonPatternOutlier)
	}
	if len(reasons) == 0 {
		return []string{ReasonUnknown}
	}
	return reasons
}
