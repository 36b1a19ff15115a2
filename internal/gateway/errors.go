// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package gateway

import (
	"errors"
	"fmt"
)

// ErrEventNotFound is returned when the backend has no such event.
var ErrEventNotFound = errors.New("event not found")

// UpstreamFetchError reports a failed backend call: a transport error, a
// non-2xx status or a malformed payload.
type UpstreamFetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }
