// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

/*
Package gateway fetches training data and event metadata from the ticketing
backend.

Layers, outermost first:

  - Gateway: the facade the engines use. Backend failures of a known kind
    (UpstreamFetchError, open circuit, timeout) are replaced by seeded
    synthetic data so training never hard-fails. Other errors propagate.
  - BreakerBackend: sony/gobreaker circuit breaker around the HTTP client.
  - Client: plain HTTP + JSON client for the backend REST API.

Event titles are cached in BadgerDB with a TTL. Failed lookups return the
placeholder "Event <id>" and are not cached.

Backend endpoints:

	GET {base}/api/v1/reservations/all   {"data":[{"userId","ticketId","ticket":{"eventId"},"ipAddress","userAgent"}]}
	GET {base}/api/v1/events/{id}        {"data":{"id","title"}}
*/
package gateway
