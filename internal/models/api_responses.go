// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package models

import "time"

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// API error codes.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeSchemaMismatch   = "SCHEMA_MISMATCH"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeModelUnavailable = "MODEL_UNAVAILABLE"
	ErrCodeTrainingFailed   = "TRAINING_FAILED"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
)

// APIResponse is the envelope of every API response.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a structured error body.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
