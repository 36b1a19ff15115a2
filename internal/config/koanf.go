// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ticketai/config.yaml",
	"/etc/ticketai/config.yml",
}

const (
	// ConfigPathEnvVar overrides the YAML config file location.
	ConfigPathEnvVar = "CONFIG_PATH"

	// DotenvPathEnvVar overrides the .env file location.
	DotenvPathEnvVar = "DOTENV_PATH"

	defaultDotenvPath = ".env"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Gateway: GatewayConfig{
			BaseURL:       "",
			FetchTimeout:  30 * time.Second,
			EventTimeout:  10 * time.Second,
			SyntheticSeed: 42,
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Recommend: RecommendConfig{
			ModelPath:       "/data/models",
			NNeighbors:      10,
			MinInteractions: 10,
			DefaultLimit:    10,
			MaxLimit:        50,
			TrainOnStartup:  true,
			TrainInterval:   24 * time.Hour,
			TrainTimeout:    30 * time.Minute,
			KeepVersions:    3,
		},
		Anomaly: AnomalyConfig{
			ModelPath:      "/data/models",
			Contamination:  0.1,
			NEstimators:    100,
			MaxSamples:     256,
			RandomSeed:     42,
			MinRecords:     100,
			TrainOnStartup: true,
			TrainInterval:  24 * time.Hour,
			TrainTimeout:   30 * time.Minute,
			KeepVersions:   3,
		},
		Cache: CacheConfig{
			Dir:      "/data/cache",
			InMemory: false,
			TitleTTL: time.Hour,
		},
		Security: SecurityConfig{
			CORSOrigins:        []string{"*"},
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			RateLimitDisabled:  false,
			TrainRateLimitReqs: 5,
		},
		EventBus: EventBusConfig{
			OutputChannelBuffer: 256,
			CloseTimeout:        10 * time.Second,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, an
// optional .env file and the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := applyEnvAliases(k); err != nil {
		return nil, err
	}
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadDotenv populates the process environment from a .env file when one
// exists. Variables already present in the environment win.
func loadDotenv() error {
	path := os.Getenv(DotenvPathEnvVar)
	if path == "" {
		path = defaultDotenvPath
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat dotenv file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load dotenv file %s: %w", path, err)
	}
	return nil
}

// applyEnvAliases maps legacy variable names that are only honoured when
// the primary name is unset.
func applyEnvAliases(k *koanf.Koanf) error {
	aliases := []struct {
		primary, legacy, key string
	}{
		{"BACKEND_API_URL", "SPRINGBOOT_API_URL", "gateway.base_url"},
	}
	for _, a := range aliases {
		if os.Getenv(a.primary) != "" {
			continue
		}
		if v := os.Getenv(a.legacy); v != "" {
			if err := k.Set(a.key, v); err != nil {
				return fmt.Errorf("failed to set %s from %s: %w", a.key, a.legacy, err)
			}
		}
	}
	return nil
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated environment values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":        "server.host",
	"server_host":      "server.host",
	"http_port":        "server.port",
	"server_port":      "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"backend_api_url":       "gateway.base_url",
	"backend_fetch_timeout": "gateway.fetch_timeout",
	"backend_event_timeout": "gateway.event_timeout",
	"synthetic_seed":        "gateway.synthetic_seed",
	"breaker_max_requests":  "gateway.breaker.max_requests",
	"breaker_interval":      "gateway.breaker.interval",
	"breaker_timeout":       "gateway.breaker.timeout",
	"breaker_min_requests":  "gateway.breaker.min_requests",
	"breaker_failure_ratio": "gateway.breaker.failure_ratio",

	"recommendation_model_path":  "recommend.model_path",
	"recommend_n_neighbors":      "recommend.n_neighbors",
	"recommend_min_interactions": "recommend.min_interactions",
	"recommend_default_limit":    "recommend.default_limit",
	"recommend_max_limit":        "recommend.max_limit",
	"recommend_train_on_startup": "recommend.train_on_startup",
	"recommend_train_interval":   "recommend.train_interval",
	"recommend_train_timeout":    "recommend.train_timeout",
	"recommend_keep_versions":    "recommend.keep_versions",

	"anomaly_model_path":       "anomaly.model_path",
	"anomaly_contamination":    "anomaly.contamination",
	"anomaly_n_estimators":     "anomaly.n_estimators",
	"anomaly_max_samples":      "anomaly.max_samples",
	"anomaly_random_seed":      "anomaly.random_seed",
	"anomaly_min_records":      "anomaly.min_records",
	"anomaly_train_on_startup": "anomaly.train_on_startup",
	"anomaly_train_interval":   "anomaly.train_interval",
	"anomaly_train_timeout":    "anomaly.train_timeout",
	"anomaly_keep_versions":    "anomaly.keep_versions",

	"cache_dir":       "cache.dir",
	"cache_in_memory": "cache.in_memory",
	"title_cache_ttl": "cache.title_ttl",

	"cors_origins":              "security.cors_origins",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"train_rate_limit_requests": "security.train_rate_limit_reqs",

	"eventbus_buffer":        "eventbus.output_channel_buffer",
	"eventbus_close_timeout": "eventbus.close_timeout",
}

// envTransformFunc maps an environment variable name to a config key.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
