// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it reports fields by
// their JSON names so error messages match what clients sent.
//
//	type RecommendationRequest struct {
//	    UserID int  `json:"user_id" validate:"gt=0"`
//	    Limit  *int `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError() // Code "VALIDATION_ERROR"
//	}
package validation
