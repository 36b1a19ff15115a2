// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package features turns raw reservation records into the numeric inputs
// consumed by the model engines.
//
// Two shapes are produced:
//
//   - InteractionMatrix: a dense user x event matrix for the recommender.
//     Duplicate (user, event) pairs are summed before the pivot, so every
//     cell holds the total interaction weight for that pair.
//   - FeatureTable: a fixed-schema table for the anomaly detector. Columns
//     are computed over the batch passed in, not against global history.
//
// # Batch-Relative Features
//
// The anomaly features are counts within the current batch. The same
// reservation can therefore produce different feature values depending on
// which other reservations are submitted alongside it. This mirrors how the
// detector is trained and is a known limitation of the feature set.
//
// # Schema Lock
//
// A FeatureTable built with a known schema must match it exactly (names and
// order). Any difference is reported as a *SchemaMismatchError; columns are
// never zero-filled or silently dropped.
package features
