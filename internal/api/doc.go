// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package api exposes the recommendation and anomaly engines over HTTP
// using the Chi router.
//
// # Routes
//
//	GET  /                                 service banner
//	GET  /health                           liveness
//	GET  /metrics                          Prometheus exposition
//	POST /api/v1/recommendations           ranked events for one user
//	POST /api/v1/recommendations/train     background training (202)
//	GET  /api/v1/recommendations/health    model status
//	POST /api/v1/anomaly/detect            score a reservation batch
//	POST /api/v1/anomaly/train             background training (202)
//	GET  /api/v1/anomaly/health            model status
//
// Both train endpoints accept ?force_retrain=true to retrain a model that is
// already fitted.
//
// # Middleware
//
// Every request passes through request ID propagation, chi's RealIP and
// Recoverer, and CORS. The /api/v1 group adds per-IP rate limiting via
// go-chi/httprate and Prometheus request metrics. The train endpoints carry a
// second, tighter limit. Limited responses set Retry-After.
//
// # Responses
//
// Every JSON body uses the models.APIResponse envelope. Errors map as:
//
//	malformed body                      400 INVALID_JSON
//	field validation failure            400 VALIDATION_ERROR
//	feature schema mismatch             400 SCHEMA_MISMATCH
//	model still unfitted after training 500 MODEL_UNAVAILABLE
//	training failure                    500 TRAINING_FAILED
//	anything else                       500 INTERNAL_ERROR
//	rate limit exceeded                 429 RATE_LIMIT_EXCEEDED
package api
