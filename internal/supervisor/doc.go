// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

/*
Package supervisor provides process supervision for TicketAI using suture v4.

# Overview

Services are organized into three layers:

	RootSupervisor ("ticketai")
	├── ModelsSupervisor ("models-layer")
	│   ├── TrainingService (recommendation)
	│   └── TrainingService (anomaly)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventBusService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing trainer or event bus restarts inside its own layer; the API
keeps answering with the last published models.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddModelService(services.NewTrainingService(recSvc, trainCfg, logger))
	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddAPIService(services.NewHTTPServerService(server, timeout, handler, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

# Configuration

TreeConfig controls restart behavior. Zero values take suture's defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

Supervisor events (start, stop, restart, backoff) are logged through
sutureslog, which writes to the zerolog pipeline via logging.NewSlogLogger.

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logging.Warn().Str("service", svc.Name).Msg("Service did not stop")
	}
*/
package supervisor
