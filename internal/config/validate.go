// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package config

import (
	"errors"
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateLogging(),
		c.validateGateway(),
		c.validateRecommend(),
		c.validateAnomaly(),
		c.validateCache(),
		c.validateSecurity(),
	)
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateGateway() error {
	g := c.Gateway
	var errs []error
	if g.BaseURL != "" {
		u, err := url.Parse(g.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("BACKEND_API_URL must be an http(s) URL, got %q", g.BaseURL))
		}
	}
	if g.FetchTimeout <= 0 || g.EventTimeout <= 0 {
		errs = append(errs, fmt.Errorf("backend timeouts must be positive"))
	}
	if g.Breaker.FailureRatio <= 0 || g.Breaker.FailureRatio > 1 {
		errs = append(errs, fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]"))
	}
	if g.Breaker.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("BREAKER_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	var errs []error
	if r.ModelPath == "" {
		errs = append(errs, fmt.Errorf("RECOMMENDATION_MODEL_PATH is required"))
	}
	if r.NNeighbors < 1 {
		errs = append(errs, fmt.Errorf("RECOMMEND_N_NEIGHBORS must be at least 1"))
	}
	if r.MinInteractions < 1 {
		errs = append(errs, fmt.Errorf("RECOMMEND_MIN_INTERACTIONS must be at least 1"))
	}
	if r.DefaultLimit < 1 || r.MaxLimit < r.DefaultLimit {
		errs = append(errs, fmt.Errorf("recommend limits must satisfy 1 <= default (%d) <= max (%d)", r.DefaultLimit, r.MaxLimit))
	}
	if r.TrainInterval < 0 || r.TrainTimeout <= 0 {
		errs = append(errs, fmt.Errorf("recommend train interval must be non-negative and timeout positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateAnomaly() error {
	a := c.Anomaly
	var errs []error
	if a.ModelPath == "" {
		errs = append(errs, fmt.Errorf("ANOMALY_MODEL_PATH is required"))
	}
	if a.Contamination <= 0 || a.Contamination > 0.5 {
		errs = append(errs, fmt.Errorf("ANOMALY_CONTAMINATION must be in (0, 0.5]"))
	}
	if a.NEstimators < 1 {
		errs = append(errs, fmt.Errorf("ANOMALY_N_ESTIMATORS must be at least 1"))
	}
	if a.MaxSamples < 2 {
		errs = append(errs, fmt.Errorf("ANOMALY_MAX_SAMPLES must be at least 2"))
	}
	if a.MinRecords < 2 {
		errs = append(errs, fmt.Errorf("ANOMALY_MIN_RECORDS must be at least 2"))
	}
	if a.TrainInterval < 0 || a.TrainTimeout <= 0 {
		errs = append(errs, fmt.Errorf("anomaly train interval must be non-negative and timeout positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateCache() error {
	if !c.Cache.InMemory && c.Cache.Dir == "" {
		return fmt.Errorf("CACHE_DIR is required unless CACHE_IN_MEMORY=true")
	}
	if c.Cache.TitleTTL <= 0 {
		return fmt.Errorf("TITLE_CACHE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if len(s.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if !s.RateLimitDisabled && (s.RateLimitReqs < 1 || s.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	if s.TrainRateLimitReqs < 0 {
		return fmt.Errorf("TRAIN_RATE_LIMIT_REQUESTS must not be negative, got %d", s.TrainRateLimitReqs)
	}
	return nil
}
