// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/ticketai/internal/api"
	"github.com/tomtom215/ticketai/internal/config"
	"github.com/tomtom215/ticketai/internal/logging"
	"github.com/tomtom215/ticketai/internal/supervisor"
	"github.com/tomtom215/ticketai/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "ticketai",
		Version:   version,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("backend_configured", cfg.Gateway.BaseURL != "").
		Str("recommendation_model_path", cfg.Recommend.ModelPath).
		Str("anomaly_model_path", cfg.Anomaly.ModelPath).
		Msg("Starting TicketAI")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	comps, err := buildComponents(cfg, version)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize components")
	}
	defer func() {
		if err := comps.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event title cache")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	recTraining, anomTraining := trainingConfigs(cfg)
	tree.AddModelService(services.NewTrainingService(comps.recommend, recTraining, logging.WithComponent("training")))
	tree.AddModelService(services.NewTrainingService(comps.anomaly, anomTraining, logging.WithComponent("training")))

	tree.AddMessagingService(services.NewEventBusService(comps.bus))

	router := api.NewRouter(comps.handler, middlewareConfig(cfg))
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, comps.handler, logging.WithComponent("http")))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("TicketAI stopped")
}
