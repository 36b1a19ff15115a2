// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package features

import (
	"errors"
	"testing"
)

func TestDefaultBuilder_Counts(t *testing.T) {
	t.Parallel()

	batch := []Reservation{
		{UserID: 1, EventID: 10, TicketID: 1, IPAddress: "10.0.0.1"},
		{UserID: 1, EventID: 10, TicketID: 2, IPAddress: "10.0.0.1"},
		{UserID: 2, EventID: 10, TicketID: 3, IPAddress: "10.0.0.2"},
		{UserID: 3, EventID: 20, TicketID: 4, IPAddress: "10.0.0.1"},
	}

	table, err := DefaultBuilder().Build(batch, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantCols := []string{UserReservationCount, EventPopularity, IPReservationCount}
	if len(table.Columns) != len(wantCols) {
		t.Fatalf("Columns = %v, want %v", table.Columns, wantCols)
	}
	for i := range wantCols {
		if table.Columns[i] != wantCols[i] {
			t.Errorf("Columns[%d] = %q, want %q", i, table.Columns[i], wantCols[i])
		}
	}

	want := [][]float64{
		{2, 3, 3},
		{2, 3, 3},
		{1, 3, 1},
		{1, 1, 3},
	}
	for r := range want {
		for c := range want[r] {
			if table.Rows[r][c] != want[r][c] {
				t.Errorf("Rows[%d][%d] = %v, want %v", r, c, table.Rows[r][c], want[r][c])
			}
		}
	}
}

func TestDefaultBuilder_NoIPIsConstantOne(t *testing.T) {
	t.Parallel()

	batch := []Reservation{
		{UserID: 1, EventID: 10, TicketID: 1},
		{UserID: 1, EventID: 11, TicketID: 2},
		{UserID: 2, EventID: 10, TicketID: 3},
	}

	table, err := DefaultBuilder().Build(batch, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	col := table.Column(IPReservationCount)
	if col < 0 {
		t.Fatal("ip_reservation_count column missing")
	}
	for r, row := range table.Rows {
		if row[col] != 1 {
			t.Errorf("row %d ip_reservation_count = %v, want 1", r, row[col])
		}
	}
}

func TestBuilder_BatchRelative(t *testing.T) {
	t.Parallel()

	rec := Reservation{UserID: 7, EventID: 1, TicketID: 1, IPAddress: "1.1.1.1"}
	b := DefaultBuilder()

	alone, err := b.Build([]Reservation{rec}, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	withPeers, err := b.Build([]Reservation{rec, rec, rec}, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if alone.Rows[0][0] != 1 || withPeers.Rows[0][0] != 3 {
		t.Errorf("user count alone = %v, with peers = %v; want 1 and 3", alone.Rows[0][0], withPeers.Rows[0][0])
	}
}

func TestBuilder_SchemaLock(t *testing.T) {
	t.Parallel()

	twoCols := NewBuilder(DefaultBuilder().Features()[:2]...)
	fitted := DefaultBuilder().Schema()
	batch := []Reservation{{UserID: 1, EventID: 1, TicketID: 1}}

	tests := []struct {
		name    string
		builder *Builder
		known   []string
		wantErr bool
	}{
		{name: "matching schema", builder: DefaultBuilder(), known: fitted},
		{name: "no schema supplied", builder: twoCols, known: nil},
		{name: "missing column", builder: twoCols, known: fitted, wantErr: true},
		{name: "reordered columns", builder: DefaultBuilder(), known: []string{EventPopularity, UserReservationCount, IPReservationCount}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.builder.Build(batch, tt.known)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Build() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrSchemaMismatch) {
				t.Fatalf("Build() error = %v, want ErrSchemaMismatch", err)
			}
			var sme *SchemaMismatchError
			if !errors.As(err, &sme) {
				t.Fatal("errors.As(*SchemaMismatchError) = false")
			}
			if len(sme.Expected) != len(tt.known) {
				t.Errorf("Expected = %v, want %v", sme.Expected, tt.known)
			}
		})
	}
}
