// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package middleware provides HTTP middleware for the TicketAI API.
//
// Middleware here uses the standard func(http.Handler) http.Handler shape so
// it plugs straight into chi's r.Use:
//
//   - RequestID: reads or generates X-Request-ID and attaches it to the
//     request context and the context logger
//   - PrometheusMetrics: records request count, latency and in-flight
//     requests, labelled by chi route pattern
package middleware
