// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package recommend

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/ticketai/internal/recommend/algorithms"
)

// Config contains the recommendation engine settings.
type Config struct {
	// NNeighbors is the number of similar users consulted per request.
	NNeighbors int `json:"n_neighbors"`

	// MinInteractions is the minimum number of distinct (user, event)
	// pairs required to fit a model.
	MinInteractions int `json:"min_interactions"`

	// DefaultLimit and MaxLimit bound the number of returned events.
	DefaultLimit int `json:"default_limit"`
	MaxLimit     int `json:"max_limit"`

	// TitleConcurrency bounds parallel event title lookups per request.
	TitleConcurrency int `json:"title_concurrency"`

	// TrainTimeout bounds one training run.
	TrainTimeout time.Duration `json:"train_timeout"`

	// KeepVersions is the number of persisted model versions retained.
	KeepVersions int `json:"keep_versions"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		NNeighbors:       algorithms.DefaultNeighbors,
		MinInteractions:  10,
		DefaultLimit:     10,
		MaxLimit:         50,
		TitleConcurrency: 8,
		TrainTimeout:     30 * time.Minute,
		KeepVersions:     3,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	var errs []error
	if c.NNeighbors < 1 {
		errs = append(errs, fmt.Errorf("n_neighbors must be positive, got %d", c.NNeighbors))
	}
	if c.MinInteractions < 1 {
		errs = append(errs, fmt.Errorf("min_interactions must be positive, got %d", c.MinInteractions))
	}
	if c.MaxLimit < 1 {
		errs = append(errs, fmt.Errorf("max_limit must be positive, got %d", c.MaxLimit))
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		errs = append(errs, fmt.Errorf("default_limit must be in [1, %d], got %d", c.MaxLimit, c.DefaultLimit))
	}
	if c.TitleConcurrency < 1 {
		errs = append(errs, fmt.Errorf("title_concurrency must be positive, got %d", c.TitleConcurrency))
	}
	if c.TrainTimeout <= 0 {
		errs = append(errs, errors.New("train_timeout must be positive"))
	}
	return errors.Join(errs...)
}
