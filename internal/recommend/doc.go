// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package recommend implements user-based collaborative filtering for events.
//
// # Architecture
//
// A Model is fitted on aggregated (user, event, weight) interactions. It holds
// the interaction matrix, a brute-force cosine neighbor index over user rows
// and a popularity ranking over event columns:
//
//   - Known users: the k most similar users (excluding the user) vote for
//     events the user has not interacted with yet, weighted by their own
//     interaction totals.
//   - Unknown users (cold start): events ranked by total interaction weight.
//
// Scores in a result are max-normalized, so the first item always scores
// exactly 1.0 and every score lies in [0, 1]. Ties are broken by event ID.
//
// Models are immutable once fitted. The Service owns a lifecycle.Manager that
// loads, trains, persists and atomically swaps them; concurrent Recommend
// calls read whichever model is published without locking.
//
// # Usage
//
//	svc := recommend.NewService(cfg, store, source, titles, logger)
//	resp, err := svc.Recommend(ctx, userID, 10)
package recommend
