// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package anomaly

import (
	"errors"
	"fmt"
	"time"
)

// Config contains the anomaly engine settings.
type Config struct {
	// Contamination is the expected fraction of anomalies in training data.
	Contamination float64 `json:"contamination"`

	// NEstimators is the number of isolation trees.
	NEstimators int `json:"n_estimators"`

	// MaxSamples caps the subsample drawn for each tree.
	MaxSamples int `json:"max_samples"`

	// RandomSeed makes forest construction reproducible.
	RandomSeed int64 `json:"random_seed"`

	// MinRecords is the minimum training set size.
	MinRecords int `json:"min_records"`

	TrainTimeout time.Duration `json:"train_timeout"`
	KeepVersions int           `json:"keep_versions"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Contamination: 0.1,
		NEstimators:   100,
		MaxSamples:    256,
		RandomSeed:    42,
		MinRecords:    100,
		TrainTimeout:  30 * time.Minute,
		KeepVersions:  3,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	var errs []error
	if c.Contamination <= 0 || c.Contamination > 0.5 {
		errs = append(errs, fmt.Errorf("contamination must be in (0, 0.5], got %v", c.Contamination))
	}
	if c.NEstimators < 1 {
		errs = append(errs, fmt.Errorf("n_estimators must be positive, got %d", c.NEstimators))
	}
	if c.MaxSamples < 2 {
		errs = append(errs, fmt.Errorf("max_samples must be at least 2, got %d", c.MaxSamples))
	}
	if c.MinRecords < 2 {
		errs = append(errs, fmt.Errorf("min_records must be at least 2, got %d", c.MinRecords))
	}
	if c.TrainTimeout <= 0 {
		errs = append(errs, errors.New("train_timeout must be positive"))
	}
	return errors.Join(errs...)
}
