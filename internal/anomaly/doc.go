// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package anomaly flags suspicious reservation patterns with an isolation
// forest.
//
// # Pipeline
//
//  1. Engineer batch-relative features (see package features).
//  2. Standardize every column with the mean and population standard
//     deviation learned at fit time.
//  3. Score with an isolation forest: -2^(-E[h(x)]/c(psi)), so scores lie
//     in [-1, 0] and lower means easier to isolate.
//  4. Label a record anomalous when its score falls below the
//     contamination-quantile of the training scores.
//  5. Assign a risk tier and rule-based reasons.
//
// The fitted feature names are locked: predicting with a different column
// set fails with features.SchemaMismatchError instead of realigning data.
//
// Forest construction is seeded, so the same training data and seed always
// produce the same model.
package anomaly
