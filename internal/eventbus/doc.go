// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package eventbus carries TicketAI domain events over an in-process
// Watermill GoChannel pub/sub.
//
// Two topics are published:
//   - model.trained: one message each time a lifecycle manager publishes a
//     new model version (wired through lifecycle.WithTrainedHook)
//   - anomaly.detected: one message per flagged reservation
//     (wired through anomaly.Service.SetNotifier)
//
// A Watermill message.Router consumes both topics. The built-in handlers
// write an audit log line per trained model and count HIGH risk
// reservations. Handlers ack malformed payloads; nothing is retried.
//
// Publishing never blocks an inference request: GoChannel fans out to
// subscribers asynchronously and drops messages when nobody subscribes.
package eventbus
