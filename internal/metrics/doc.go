// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry via promauto and are
exposed at /metrics by the API router:

	curl http://localhost:8000/metrics

# Available Metrics

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests

Model lifecycle:
  - model_training_runs_total{model, outcome}
  - model_training_duration_seconds{model}
  - model_training_coalesced_total{model}
  - model_loads_total{model, result}
  - model_version{model}, model_fitted{model}

Inference:
  - model_inference_duration_seconds{model}
  - recommendations_served_total{mode}
  - anomaly_reservations_scored_total, anomaly_detected_total{risk_level}

Backend gateway:
  - gateway_requests_total{operation, result}
  - gateway_synthetic_fallbacks_total{operation, reason}
  - gateway_event_title_cache_total{result}
  - circuit_breaker_* (state, requests, consecutive failures, transitions)

Domain events:
  - domain_events_published_total{topic, result}
  - domain_events_handled_total{topic, result}
  - anomaly_high_risk_reservations_total

# Usage

Call the Record* helpers rather than touching collectors directly:

	metrics.RecordTraining("recommendation", "trained", time.Since(start))
	metrics.RecordGatewayFallback("fetch_interactions", "upstream_error")
*/
package metrics
