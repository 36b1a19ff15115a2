// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package recommend

// Reason explains a normalized recommendation score to the end user.
func Reason(score float64) string {
	switch {
	case score >= 0.8:
		return "Highly preferred by users with similar taste"
	case score >= 0.6:
		return "Liked by users similar to you"
	case score >= 0.4:
		return "An event you may be interested in"
	default:
		return "Try a new category of event"
	}
}
