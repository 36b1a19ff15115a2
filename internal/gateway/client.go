// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/metrics"
)

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// Operation names used in errors and metrics.
const (
	OpFetchReservations = "fetch_reservations"
	OpFetchInteractions = "fetch_interactions"
	OpFetchEvent        = "fetch_event"
)

// EventDetails is the subset of event metadata used for display.
type EventDetails struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Backend is the ticketing backend API.
type Backend interface {
	FetchReservations(ctx context.Context) ([]features.Reservation, error)
	FetchEventDetails(ctx context.Context, eventID int) (*EventDetails, error)
}

type reservationPayload struct {
	UserID   int `json:"userId"`
	TicketID int `json:"ticketId"`
	Ticket   struct {
		EventID int `json:"eventId"`
	} `json:"ticket"`
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
}

type envelope[T any] struct {
	Data *T `json:"data"`
}

// Client talks to the backend REST API.
type Client struct {
	baseURL      string
	client       *http.Client
	fetchTimeout time.Duration
	eventTimeout time.Duration
}

// NewClient creates a backend client. Timeouts are applied per call.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		client:       &http.Client{},
		fetchTimeout: cfg.FetchTimeout,
		eventTimeout: cfg.EventTimeout,
	}
}

// FetchReservations returns every reservation known to the backend.
func (c *Client) FetchReservations(ctx context.Context) ([]features.Reservation, error) {
	var env envelope[[]reservationPayload]
	if err := c.getJSON(ctx, OpFetchReservations, "/api/v1/reservations/all", c.fetchTimeout, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &UpstreamFetchError{Op: OpFetchReservations, Err: errors.New("response has no data field")}
	}

	out := make([]features.Reservation, 0, len(*env.Data))
	for _, p := range *env.Data {
		out = append(out, features.Reservation{
			UserID:    p.UserID,
			EventID:   p.Ticket.EventID,
			TicketID:  p.TicketID,
			IPAddress: p.IPAddress,
			UserAgent: p.UserAgent,
		})
	}
	return out, nil
}

// FetchEventDetails looks up one event. A 404 yields an error matching
// ErrEventNotFound.
func (c *Client) FetchEventDetails(ctx context.Context, eventID int) (*EventDetails, error) {
	var env envelope[EventDetails]
	path := fmt.Sprintf("/api/v1/events/%d", eventID)
	if err := c.getJSON(ctx, OpFetchEvent, path, c.eventTimeout, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &UpstreamFetchError{Op: OpFetchEvent, Err: errors.New("response has no data field")}
	}
	if env.Data.ID == 0 {
		env.Data.ID = eventID
	}
	return env.Data, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, timeout time.Duration, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordGatewayRequest(op, "error")
		return &UpstreamFetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && op == OpFetchEvent {
		metrics.RecordGatewayRequest(op, "not_found")
		return &UpstreamFetchError{Op: op, Status: resp.StatusCode, Err: ErrEventNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordGatewayRequest(op, "error")
		body := readBodyForError(resp.Body)
		return &UpstreamFetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordGatewayRequest(op, "error")
		return &UpstreamFetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	metrics.RecordGatewayRequest(op, "success")
	return nil
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
