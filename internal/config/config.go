// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package config

import "time"

// Config is the complete process configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Gateway   GatewayConfig   `koanf:"gateway"`
	Recommend RecommendConfig `koanf:"recommend"`
	Anomaly   AnomalyConfig   `koanf:"anomaly"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	EventBus  EventBusConfig  `koanf:"eventbus"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// GatewayConfig configures the backend client and its fallback.
type GatewayConfig struct {
	// BaseURL of the ticketing backend. Empty means synthetic data only.
	BaseURL       string        `koanf:"base_url"`
	FetchTimeout  time.Duration `koanf:"fetch_timeout"`
	EventTimeout  time.Duration `koanf:"event_timeout"`
	SyntheticSeed uint64        `koanf:"synthetic_seed"`
	Breaker       BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker thresholds for the backend.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// RecommendConfig configures the recommendation engine and its trainer.
type RecommendConfig struct {
	ModelPath       string        `koanf:"model_path"`
	NNeighbors      int           `koanf:"n_neighbors"`
	MinInteractions int           `koanf:"min_interactions"`
	DefaultLimit    int           `koanf:"default_limit"`
	MaxLimit        int           `koanf:"max_limit"`
	TrainOnStartup  bool          `koanf:"train_on_startup"`
	TrainInterval   time.Duration `koanf:"train_interval"`
	TrainTimeout    time.Duration `koanf:"train_timeout"`
	KeepVersions    int           `koanf:"keep_versions"`
}

// AnomalyConfig configures the anomaly engine and its trainer.
type AnomalyConfig struct {
	ModelPath      string        `koanf:"model_path"`
	Contamination  float64       `koanf:"contamination"`
	NEstimators    int           `koanf:"n_estimators"`
	MaxSamples     int           `koanf:"max_samples"`
	RandomSeed     int64         `koanf:"random_seed"`
	MinRecords     int           `koanf:"min_records"`
	TrainOnStartup bool          `koanf:"train_on_startup"`
	TrainInterval  time.Duration `koanf:"train_interval"`
	TrainTimeout   time.Duration `koanf:"train_timeout"`
	KeepVersions   int           `koanf:"keep_versions"`
}

// CacheConfig configures the BadgerDB event title cache.
type CacheConfig struct {
	Dir      string        `koanf:"dir"`
	InMemory bool          `koanf:"in_memory"`
	TitleTTL time.Duration `koanf:"title_ttl"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// TrainRateLimitReqs caps train endpoint calls per client and window.
	TrainRateLimitReqs int `koanf:"train_rate_limit_reqs"`
}

// EventBusConfig configures the in-process domain event bus.
type EventBusConfig struct {
	OutputChannelBuffer int64         `koanf:"output_channel_buffer"`
	CloseTimeout        time.Duration `koanf:"close_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
