// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package lifecycle owns the load, train, persist and swap cycle of a model.
//
// A Manager holds exactly one canonical model per model type. The model is
// published through an atomic pointer: readers call Current and always see a
// fully constructed artifact, while training builds a replacement off to
// the side and publishes it only after both fit and save succeed.
//
// # Initialization
//
// GetOrInit loads the newest persisted artifact on first use. Any load
// failure (missing file, checksum, schema, decode) falls back to a fresh
// unfitted model; the cause is logged and counted, never returned.
//
// # Training
//
// Train is single-flight per manager. Concurrent callers asking for the
// same kind of run (forced or not) share one execution, and runs of
// different kinds are serialized, so at most one fit is in flight at a
// time. Training continues even if the caller that started it goes away;
// it is bounded by the manager's training timeout instead.
//
// A run is skipped when the current model is fitted and force is false,
// and when the trainer reports features.ErrInsufficientData. Neither is an
// error.
package lifecycle
