// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

/*
Package main is the entry point for the TicketAI server.

TicketAI recommends events to ticketing users and flags suspicious
reservations. It trains on reservation history pulled from the ticketing
backend, or on synthetic data when the backend is unreachable.

# Application Architecture

	RootSupervisor ("ticketai")
	├── ModelsSupervisor ("models-layer")
	│   ├── recommendation-training
	│   └── anomaly-training
	├── MessagingSupervisor ("messaging-layer")
	│   └── event-bus (watermill GoChannel router)
	└── APISupervisor ("api-layer")
	    └── http-server (chi)

Initialization order:

 1. Configuration: koanf defaults, optional config.yaml, .env, environment
 2. Logging: zerolog, JSON or console
 3. Gateway: backend client behind a circuit breaker, synthetic fallback,
    badger-backed event title cache
 4. Event bus: model.trained and anomaly.detected topics
 5. Engines: recommendation and anomaly services with versioned model stores
 6. HTTP API and supervisor tree

# Configuration

	SERVER_PORT=8000
	BACKEND_API_URL=http://backend:8080      # alias: SPRINGBOOT_API_URL
	RECOMMENDATION_MODEL_PATH=/data/models
	ANOMALY_MODEL_PATH=/data/models
	CORS_ORIGINS=https://tickets.example.com
	LOG_LEVEL=info

See package config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, background training started through the API is given
until the shutdown timeout, and the event bus router closes.
*/
package main
