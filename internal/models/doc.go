// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

/*
Package models defines the HTTP request and response structures of the
TicketAI API.

Every endpoint responds with APIResponse:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "2026-01-15T10:30:00Z", "query_time_ms": 12}
	}

Errors set status to "error" and carry an APIError with a machine-readable
code (VALIDATION_ERROR, SCHEMA_MISMATCH, MODEL_UNAVAILABLE, ...).

Request types carry go-playground/validator tags and are checked with
internal/validation before they reach an engine.
*/
package models
