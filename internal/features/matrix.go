// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package features

import (
	"fmt"
	"sort"
)

// InteractionMatrix is a dense user x event matrix of total interaction
// weight. Rows follow UserIDs and columns follow EventIDs, both ascending.
// A matrix is immutable once built.
type InteractionMatrix struct {
	userIDs  []int
	eventIDs []int
	values   [][]float64

	userIndex  map[int]int
	eventIndex map[int]int
}

// BuildInteractions pivots interaction records into a matrix. Duplicate
// (user, event) pairs are summed and missing cells are zero.
func BuildInteractions(records []Interaction) (*InteractionMatrix, error) {
	agg, err := AggregateInteractions(records)
	if err != nil {
		return nil, err
	}

	userSet := make(map[int]struct{})
	eventSet := make(map[int]struct{})
	for _, r := range agg {
		userSet[r.UserID] = struct{}{}
		eventSet[r.EventID] = struct{}{}
	}

	m := &InteractionMatrix{
		userIDs:  sortedKeys(userSet),
		eventIDs: sortedKeys(eventSet),
	}
	m.reindex()

	m.values = make([][]float64, len(m.userIDs))
	for i := range m.values {
		m.values[i] = make([]float64, len(m.eventIDs))
	}
	for _, r := range agg {
		m.values[m.userIndex[r.UserID]][m.eventIndex[r.EventID]] = r.Score
	}
	return m, nil
}

// NewInteractionMatrix rebuilds a matrix from persisted parts. It validates
// that dimensions agree with the ID lists.
func NewInteractionMatrix(userIDs, eventIDs []int, values [][]float64) (*InteractionMatrix, error) {
	if len(values) != len(userIDs) {
		return nil, fmt.Errorf("matrix has %d rows for %d users", len(values), len(userIDs))
	}
	for i, row := range values {
		if len(row) != len(eventIDs) {
			return nil, fmt.Errorf("matrix row %d has %d columns for %d events", i, len(row), len(eventIDs))
		}
	}
	m := &InteractionMatrix{
		userIDs:  append([]int(nil), userIDs...),
		eventIDs: append([]int(nil), eventIDs...),
		values:   values,
	}
	m.reindex()
	if len(m.userIndex) != len(userIDs) || len(m.eventIndex) != len(eventIDs) {
		return nil, fmt.Errorf("matrix ids contain duplicates")
	}
	return m, nil
}

func (m *InteractionMatrix) reindex() {
	m.userIndex = make(map[int]int, len(m.userIDs))
	for i, id := range m.userIDs {
		m.userIndex[id] = i
	}
	m.eventIndex = make(map[int]int, len(m.eventIDs))
	for i, id := range m.eventIDs {
		m.eventIndex[id] = i
	}
}

// Rows returns the number of users.
func (m *InteractionMatrix) Rows() int { return len(m.userIDs) }

// Cols returns the number of events.
func (m *InteractionMatrix) Cols() int { return len(m.eventIDs) }

// UserIDs returns a copy of the row labels.
func (m *InteractionMatrix) UserIDs() []int { return append([]int(nil), m.userIDs...) }

// EventIDs returns a copy of the column labels.
func (m *InteractionMatrix) EventIDs() []int { return append([]int(nil), m.eventIDs...) }

// UserAt returns the user ID of row i.
func (m *InteractionMatrix) UserAt(i int) int { return m.userIDs[i] }

// EventAt returns the event ID of column j.
func (m *InteractionMatrix) EventAt(j int) int { return m.eventIDs[j] }

// UserIndex returns the row of userID.
func (m *InteractionMatrix) UserIndex(userID int) (int, bool) {
	i, ok := m.userIndex[userID]
	return i, ok
}

// Row returns row i. The slice is shared; callers must not modify it.
func (m *InteractionMatrix) Row(i int) []float64 { return m.values[i] }

// Value returns the cell for (userID, eventID), or 0 if either is unknown.
func (m *InteractionMatrix) Value(userID, eventID int) float64 {
	i, ok := m.userIndex[userID]
	if !ok {
		return 0
	}
	j, ok := m.eventIndex[eventID]
	if !ok {
		return 0
	}
	return m.values[i][j]
}

// ColumnSums returns the total interaction weight per event column.
func (m *InteractionMatrix) ColumnSums() []float64 {
	sums := make([]float64, len(m.eventIDs))
	for _, row := range m.values {
		for j, v := range row {
			sums[j] += v
		}
	}
	return sums
}

// Values returns the backing rows for persistence.
func (m *InteractionMatrix) Values() [][]float64 { return m.values }

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
