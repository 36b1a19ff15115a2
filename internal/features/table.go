// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package features

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Anomaly feature column names.
const (
	UserReservationCount = "user_reservation_count"
	EventPopularity      = "event_popularity"
	IPReservationCount   = "ip_reservation_count"
)

// ErrSchemaMismatch is matched by every *SchemaMismatchError.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

// SchemaMismatchError reports that engineered columns differ from the
// schema a model was fitted on.
type SchemaMismatchError struct {
	Expected []string
	Got      []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: expected [%s], got [%s]",
		ErrSchemaMismatch, strings.Join(e.Expected, ", "), strings.Join(e.Got, ", "))
}

// Is makes errors.Is(err, ErrSchemaMismatch) match.
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// Feature computes one column over a whole batch.
type Feature struct {
	Name    string
	Compute func(batch []Reservation) []float64
}

// FeatureTable is a row-major numeric table with named columns.
type FeatureTable struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the index of name, or -1.
func (t *FeatureTable) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Builder engineers a FeatureTable from reservations.
type Builder struct {
	features []Feature
}

// NewBuilder returns a builder for the given features, in column order.
func NewBuilder(features ...Feature) *Builder {
	return &Builder{features: features}
}

// DefaultBuilder returns the builder for the anomaly schema:
// user_reservation_count, event_popularity, ip_reservation_count.
func DefaultBuilder() *Builder {
	return NewBuilder(
		Feature{Name: UserReservationCount, Compute: countBy(func(r Reservation) string { return strconv.Itoa(r.UserID) })},
		Feature{Name: EventPopularity, Compute: countBy(func(r Reservation) string { return strconv.Itoa(r.EventID) })},
		Feature{Name: IPReservationCount, Compute: ipCounts},
	)
}

// Schema returns the column names the builder produces.
func (b *Builder) Schema() []string {
	names := make([]string, len(b.features))
	for i, f := range b.features {
		names[i] = f.Name
	}
	return names
}

// Features returns a copy of the builder's feature list.
func (b *Builder) Features() []Feature {
	return append([]Feature(nil), b.features...)
}

// Build computes the feature table for batch. When known is non-nil the
// produced columns must equal it exactly, otherwise a *SchemaMismatchError
// is returned.
func (b *Builder) Build(batch []Reservation, known []string) (*FeatureTable, error) {
	cols := b.Schema()
	if known != nil && !sameColumns(cols, known) {
		return nil, &SchemaMismatchError{Expected: append([]string(nil), known...), Got: cols}
	}

	computed := make([][]float64, len(b.features))
	for i, f := range b.features {
		computed[i] = f.Compute(batch)
		if len(computed[i]) != len(batch) {
			return nil, fmt.Errorf("feature %s returned %d values for %d records", f.Name, len(computed[i]), len(batch))
		}
	}

	rows := make([][]float64, len(batch))
	for r := range batch {
		row := make([]float64, len(cols))
		for c := range cols {
			row[c] = computed[c][r]
		}
		rows[r] = row
	}
	return &FeatureTable{Columns: cols, Rows: rows}, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func countBy(key func(Reservation) string) func([]Reservation) []float64 {
	return func(batch []Reservation) []float64 {
		counts := make(map[string]int, len(batch))
		for _, r := range batch {
			counts[key(r)]++
		}
		out := make([]float64, len(batch))
		for i, r := range batch {
			out[i] = float64(counts[key(r)])
		}
		return out
	}
}

// ipCounts counts records per IP address. When no record carries an IP the
// column is the constant 1. Records without an IP in a batch where others
// have one are grouped under the empty address.
func ipCounts(batch []Reservation) []float64 {
	anyIP := false
	for _, r := range batch {
		if r.IPAddress != "" {
			anyIP = true
			break
		}
	}
	if !anyIP {
		out := make([]float64, len(batch))
		for i := range out {
			out[i] = 1
		}
		return out
	}
	return countBy(func(r Reservation) string { return r.IPAddress })(batch)
}
