// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

/*
Package services provides suture.Service wrappers for TicketAI components.

Each wrapper translates a component lifecycle into suture's Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Waits for background training started by the API before returning

Model Training (TrainingService):
  - Trains once on startup unless a fitted model was loaded from disk
  - Forces a retrain every TrainInterval
  - Logs failures and keeps serving the previous model

Event Bus (EventBusService):
  - Runs the watermill router behind internal/eventbus
  - Returns router failures so suture restarts the bus

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

# Service Identification

All services implement fmt.Stringer so suture's event hook can name them:

	INFO http-server: starting
	ERROR event-bus: restarting after failure
*/
package services
