// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config contains backend connection settings.
type Config struct {
	// BaseURL of the ticketing backend. Empty disables the backend and every
	// fetch is served from synthetic data.
	BaseURL string `json:"base_url"`

	// FetchTimeout bounds a bulk reservation fetch.
	FetchTimeout time.Duration `json:"fetch_timeout"`

	// EventTimeout bounds a single event detail lookup.
	EventTimeout time.Duration `json:"event_timeout"`

	Breaker BreakerConfig `json:"breaker"`

	// SyntheticSeed seeds the fallback data generator. Zero picks a random
	// seed per call.
	SyntheticSeed uint64 `json:"synthetic_seed"`
}

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	MaxRequests  uint32        `json:"max_requests"`
	Interval     time.Duration `json:"interval"`
	Timeout      time.Duration `json:"timeout"`
	MinRequests  uint32        `json:"min_requests"`
	FailureRatio float64       `json:"failure_ratio"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		FetchTimeout: 30 * time.Second,
		EventTimeout: 10 * time.Second,
		Breaker: BreakerConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      2 * time.Minute,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		SyntheticSeed: 42,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	var errs []error
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL))
		}
	}
	if c.FetchTimeout <= 0 || c.EventTimeout <= 0 {
		errs = append(errs, errors.New("fetch_timeout and event_timeout must be positive"))
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		errs = append(errs, fmt.Errorf("breaker.failure_ratio must be in (0, 1], got %v", c.Breaker.FailureRatio))
	}
	return errors.Join(errs...)
}
