// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package main

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/ticketai/internal/anomaly"
	"github.com/tomtom215/ticketai/internal/api"
	"github.com/tomtom215/ticketai/internal/config"
	"github.com/tomtom215/ticketai/internal/eventbus"
	"github.com/tomtom215/ticketai/internal/gateway"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/logging"
	"github.com/tomtom215/ticketai/internal/recommend"
	"github.com/tomtom215/ticketai/internal/storage"
	"github.com/tomtom215/ticketai/internal/supervisor/services"
)

// components holds everything main wires into the supervisor tree.
type components struct {
	gateway   *gateway.Gateway
	cacheDB   *badger.DB
	bus       *eventbus.Bus
	recommend *recommend.Service
	anomaly   *anomaly.Service
	handler   *api.Handler
}

// Close releases resources that outlive the supervisor tree.
func (c *components) Close() error {
	if c.cacheDB == nil {
		return nil
	}
	return c.cacheDB.Close()
}

func gatewayConfig(cfg *config.Config) gateway.Config {
	return gateway.Config{
		BaseURL:      cfg.Gateway.BaseURL,
		FetchTimeout: cfg.Gateway.FetchTimeout,
		EventTimeout: cfg.Gateway.EventTimeout,
		Breaker: gateway.BreakerConfig{
			MaxRequests:  cfg.Gateway.Breaker.MaxRequests,
			Interval:     cfg.Gateway.Breaker.Interval,
			Timeout:      cfg.Gateway.Breaker.Timeout,
			MinRequests:  cfg.Gateway.Breaker.MinRequests,
			FailureRatio: cfg.Gateway.Breaker.FailureRatio,
		},
		SyntheticSeed: cfg.Gateway.SyntheticSeed,
	}
}

func recommendConfig(cfg *config.Config) recommend.Config {
	rc := recommend.DefaultConfig()
	rc.NNeighbors = cfg.Recommend.NNeighbors
	rc.MinInteractions = cfg.Recommend.MinInteractions
	rc.DefaultLimit = cfg.Recommend.DefaultLimit
	rc.MaxLimit = cfg.Recommend.MaxLimit
	rc.TrainTimeout = cfg.Recommend.TrainTimeout
	rc.KeepVersions = cfg.Recommend.KeepVersions
	return rc
}

func anomalyConfig(cfg *config.Config) anomaly.Config {
	ac := anomaly.DefaultConfig()
	ac.Contamination = cfg.Anomaly.Contamination
	ac.NEstimators = cfg.Anomaly.NEstimators
	ac.MaxSamples = cfg.Anomaly.MaxSamples
	ac.RandomSeed = cfg.Anomaly.RandomSeed
	ac.MinRecords = cfg.Anomaly.MinRecords
	ac.TrainTimeout = cfg.Anomaly.TrainTimeout
	ac.KeepVersions = cfg.Anomaly.KeepVersions
	return ac
}

func eventBusConfig(cfg *config.Config) eventbus.Config {
	bc := eventbus.DefaultConfig()
	if cfg.EventBus.OutputChannelBuffer > 0 {
		bc.OutputChannelBuffer = cfg.EventBus.OutputChannelBuffer
	}
	if cfg.EventBus.CloseTimeout > 0 {
		bc.CloseTimeout = cfg.EventBus.CloseTimeout
	}
	return bc
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mc := api.DefaultChiMiddlewareConfig()
	mc.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mc.RateLimitRequests = cfg.Security.RateLimitReqs
	mc.RateLimitWindow = cfg.Security.RateLimitWindow
	mc.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mc.TrainRateLimitRequests = cfg.Security.TrainRateLimitReqs
	return mc
}

func trainingConfigs(cfg *config.Config) (rec, anom services.TrainingServiceConfig) {
	rec = services.TrainingServiceConfig{
		Name:           recommend.ModelName,
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		TrainInterval:  cfg.Recommend.TrainInterval,
	}
	anom = services.TrainingServiceConfig{
		Name:           anomaly.ModelName,
		TrainOnStartup: cfg.Anomaly.TrainOnStartup,
		TrainInterval:  cfg.Anomaly.TrainInterval,
	}
	return rec, anom
}

// newGateway builds the data gateway. An empty base URL runs on synthetic
// data only; the title cache is skipped when badger cannot be opened.
func newGateway(cfg *config.Config) (*gateway.Gateway, *badger.DB, error) {
	gwCfg := gatewayConfig(cfg)
	if err := gwCfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("gateway config: %w", err)
	}
	logger := logging.WithComponent("gateway")

	var backend gateway.Backend
	if gwCfg.BaseURL != "" {
		backend = gateway.NewBreakerBackend(gateway.NewClient(gwCfg), gwCfg.Breaker, logger)
	} else {
		logger.Warn().Msg("BACKEND_API_URL not set, training on synthetic data only")
	}

	var titles *gateway.TitleCache
	db, err := gateway.OpenCacheDB(cfg.Cache.Dir, cfg.Cache.InMemory)
	if err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Cache.Dir).Msg("Event title cache disabled")
		db = nil
	} else {
		titles = gateway.NewTitleCache(db, cfg.Cache.TitleTTL)
	}

	return gateway.New(backend, gateway.NewSynthetic(gwCfg.SyntheticSeed), titles, logger), db, nil
}

// buildComponents wires gateway, event bus, engines and HTTP handler.
func buildComponents(cfg *config.Config, version string) (*components, error) {
	gw, cacheDB, err := newGateway(cfg)
	if err != nil {
		return nil, err
	}
	c := &components{gateway: gw, cacheDB: cacheDB}

	recStore, err := storage.NewStore(cfg.Recommend.ModelPath)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("recommendation model store: %w", err)
	}
	anomStore, err := storage.NewStore(cfg.Anomaly.ModelPath)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("anomaly model store: %w", err)
	}

	recCfg := recommendConfig(cfg)
	anomCfg := anomalyConfig(cfg)
	for name, v := range map[string]interface{ Validate() error }{"recommend": recCfg, "anomaly": anomCfg} {
		if err := v.Validate(); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("%s config: %w", name, err)
		}
	}

	c.bus = eventbus.New(eventBusConfig(cfg), logging.WithComponent("eventbus"))

	c.recommend = recommend.NewService(recCfg, recStore, gw, gw,
		logging.WithComponent("recommend"),
		lifecycle.WithTrainedHook(c.bus.ModelTrained))

	c.anomaly = anomaly.NewService(anomCfg, anomStore, gw,
		logging.WithComponent("anomaly"),
		lifecycle.WithTrainedHook(c.bus.ModelTrained))
	c.anomaly.SetNotifier(c.bus)

	c.handler = api.NewHandler(c.recommend, c.anomaly, version, logging.WithComponent("api"))
	return c, nil
}
