// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Model Lifecycle Metrics
	ModelTrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_training_runs_total",
			Help: "Training runs by model and outcome",
		},
		[]string{"model", "outcome"}, // trained, skipped_fitted, skipped_insufficient, failed, persist_failed
	)

	ModelTrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_training_duration_seconds",
			Help:    "Duration of training runs that reached the fit stage",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 300},
		},
		[]string{"model"},
	)

	ModelTrainingCoalesced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_training_coalesced_total",
			Help: "Train requests that joined an in-flight run",
		},
		[]string{"model"},
	)

	ModelLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Persisted model load attempts by result",
		},
		[]string{"model", "result"}, // ok, not_found, checksum, schema, decode, io, restore
	)

	ModelVersion = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_version",
			Help: "Version of the published model",
		},
		[]string{"model"},
	)

	ModelFitted = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_fitted",
			Help: "Whether the published model is fitted (1) or not (0)",
		},
		[]string{"model"},
	)

	// Inference Metrics
	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_inference_duration_seconds",
			Help:    "Duration of recommend/predict calls",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"model"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Recommendation responses by mode",
		},
		[]string{"mode"}, // personalized, cold_start
	)

	ReservationsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anomaly_reservations_scored_total",
			Help: "Reservations scored by the anomaly detector",
		},
	)

	AnomaliesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomaly_detected_total",
			Help: "Reservations flagged as anomalous by risk level",
		},
		[]string{"risk_level"},
	)

	// Gateway Metrics
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Backend requests by operation and result",
		},
		[]string{"operation", "result"}, // success, error, rejected
	)

	GatewayFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_synthetic_fallbacks_total",
			Help: "Times synthetic data replaced a failed backend fetch",
		},
		[]string{"operation", "reason"},
	)

	EventTitleCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_event_title_cache_total",
			Help: "Event title cache lookups",
		},
		[]string{"result"}, // hit, miss, error
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Domain Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_events_published_total",
			Help: "Domain events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_events_handled_total",
			Help: "Domain events consumed by topic and result",
		},
		[]string{"topic", "result"},
	)

	HighRiskReservations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anomaly_high_risk_reservations_total",
			Help: "HIGH risk reservations observed by the anomaly event handler",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTraining records a training run. Skipped runs have zero duration
// and are not observed in the histogram.
func RecordTraining(model, outcome string, duration time.Duration) {
	ModelTrainingRuns.WithLabelValues(model, outcome).Inc()
	if duration > 0 {
		ModelTrainingDuration.WithLabelValues(model).Observe(duration.Seconds())
	}
}

// RecordTrainingCoalesced counts a caller that shared another caller's run.
func RecordTrainingCoalesced(model string) {
	ModelTrainingCoalesced.WithLabelValues(model).Inc()
}

// RecordModelLoad records a load attempt result.
func RecordModelLoad(model, result string) {
	ModelLoads.WithLabelValues(model, result).Inc()
}

// SetModelVersion publishes the current model version and fitted flag.
func SetModelVersion(model string, version int, fitted bool) {
	ModelVersion.WithLabelValues(model).Set(float64(version))
	if fitted {
		ModelFitted.WithLabelValues(model).Set(1)
	} else {
		ModelFitted.WithLabelValues(model).Set(0)
	}
}

// RecordInference observes an inference call.
func RecordInference(model string, duration time.Duration) {
	InferenceDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordRecommendation counts a recommendation response.
func RecordRecommendation(coldStart bool) {
	if coldStart {
		RecommendationsServed.WithLabelValues("cold_start").Inc()
		return
	}
	RecommendationsServed.WithLabelValues("personalized").Inc()
}

// RecordAnomalyBatch counts scored reservations and flagged ones per risk level.
func RecordAnomalyBatch(scored int, flaggedByRisk map[string]int) {
	ReservationsScored.Add(float64(scored))
	for level, n := range flaggedByRisk {
		AnomaliesDetected.WithLabelValues(level).Add(float64(n))
	}
}

// RecordGatewayRequest records a backend call result.
func RecordGatewayRequest(operation, result string) {
	GatewayRequests.WithLabelValues(operation, result).Inc()
}

// RecordGatewayFallback records a synthetic data substitution.
func RecordGatewayFallback(operation, reason string) {
	GatewayFallbacks.WithLabelValues(operation, reason).Inc()
}

// RecordTitleCache records an event title cache lookup.
func RecordTitleCache(result string) {
	EventTitleCache.WithLabelValues(result).Inc()
}

// RecordEventPublished records a domain event publish.
func RecordEventPublished(topic string, err error) {
	if err != nil {
		EventsPublished.WithLabelValues(topic, "error").Inc()
		return
	}
	EventsPublished.WithLabelValues(topic, "success").Inc()
}

// RecordEventHandled records a domain event consumption.
func RecordEventHandled(topic string, err error) {
	if err != nil {
		EventsHandled.WithLabelValues(topic, "error").Inc()
		return
	}
	EventsHandled.WithLabelValues(topic, "success").Inc()
}
