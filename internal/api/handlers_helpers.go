// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/logging"
	"github.com/tomtom215/ticketai/internal/models"
	"github.com/tomtom215/ticketai/internal/validation"
)

// maxBodyBytes caps request bodies; a full 10k reservation batch fits well
// inside it.
const maxBodyBytes = 16 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	meta := models.Metadata{Timestamp: time.Now().UTC()}
	if !start.IsZero() {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     data,
		Metadata: meta,
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondErrorDetails(w, status, code, message, nil, err)
}

func respondErrorDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   models.StatusError,
		Data:     nil,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// decodeJSON reads a size-limited JSON body into dst and writes a 400
// response when it cannot. It reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			respondError(w, http.StatusBadRequest, models.ErrCodeInvalidJSON, "Request body is required", nil)
		case errors.As(err, &maxErr):
			respondError(w, http.StatusRequestEntityTooLarge, models.ErrCodeInvalidJSON,
				fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit), nil)
		default:
			respondError(w, http.StatusBadRequest, models.ErrCodeInvalidJSON, "Invalid JSON request body", nil)
		}
		return false
	}
	return true
}

// validateRequest runs struct validation and writes a 400 VALIDATION_ERROR
// response on failure. It reports whether the request is valid.
func validateRequest(w http.ResponseWriter, req interface{}) bool {
	verr := validation.ValidateStruct(req)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
	return false
}

// respondServiceError maps engine errors onto HTTP responses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.Ctx(r.Context())

	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
	case errors.Is(err, features.ErrSchemaMismatch):
		logger.Warn().Err(err).Msg("Rejected request with mismatched feature schema")
		respondError(w, http.StatusBadRequest, models.ErrCodeSchemaMismatch, err.Error(), nil)
	case errors.Is(err, features.ErrNegativeScore):
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, lifecycle.ErrTrainingFailed):
		logger.Error().Err(err).Msg("Model training failed while serving request")
		respondError(w, http.StatusInternalServerError, models.ErrCodeTrainingFailed, "Model training failed", nil)
	case errors.Is(err, lifecycle.ErrNotFitted):
		logger.Error().Err(err).Msg("No fitted model available")
		respondError(w, http.StatusInternalServerError, models.ErrCodeModelUnavailable, "Model is not available, training data may be insufficient", nil)
	default:
		logger.Error().Err(err).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Internal server error", nil)
	}
}

// parseBoolParam reads a boolean query parameter. Missing or unparsable
// values yield def.
func parseBoolParam(r *http.Request, name string, def bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
