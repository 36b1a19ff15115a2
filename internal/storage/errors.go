// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no artifact exists for the requested name/version.
	ErrNotFound = errors.New("artifact not found")

	// ErrChecksum means the stored state does not match its checksum.
	ErrChecksum = errors.New("artifact checksum mismatch")

	// ErrSchema means the artifact was written for another kind or schema version.
	ErrSchema = errors.New("artifact schema mismatch")

	// ErrDecode means the file could not be decoded.
	ErrDecode = errors.New("artifact decode failed")
)

// PersistenceError wraps a save or load failure with its location.
type PersistenceError struct {
	Op   string // "save" or "load"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s artifact %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Cause returns a short label for the failure kind, for logs and metrics.
func Cause(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrChecksum):
		return "checksum"
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "io"
	}
}
