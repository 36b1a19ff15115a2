// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package logging provides the zerolog-based structured logger shared by
// every TicketAI component.
//
// The package provides:
//   - A global zerolog logger configured once from main via Init
//   - JSON output for production, console output for development
//   - Request ID propagation through context.Context
//   - An slog adapter for libraries that need *slog.Logger (sutureslog)
//   - A watermill.LoggerAdapter so the event bus logs through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("backend unavailable, using synthetic data")
//
// Components receive a child logger rather than reaching for the global:
//
//	svc := recommend.NewService(cfg, store, gw, gw, logging.WithComponent("recommend"))
//
// # Configuration
//
// Environment Variables (read by internal/config):
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// Always terminate event chains with .Msg() or .Send(); an unterminated
// event is never written.
package logging
