// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package storage persists fitted model artifacts.
//
// Each artifact is gob-encoded, gzip-compressed and stored together with its
// metadata in a single file named {name}_v{version}.gob.gz. The metadata
// carries a SHA-256 checksum of the uncompressed state and a Descriptor
// (kind + schema version) so that a file written for a different model type
// or an older state layout is rejected on load.
//
// # Atomic Writes
//
// Files are written to a temporary name in the same directory, synced, and
// renamed into place. A crash mid-write leaves at most a stray temp file,
// never a truncated artifact under the real name.
//
// # Errors
//
// All failures are returned as *PersistenceError. Use errors.Is with
// ErrNotFound, ErrChecksum, ErrSchema or ErrDecode to branch on the cause.
package storage
