// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ticketai/internal/anomaly"
	"github.com/tomtom215/ticketai/internal/features"
	"github.com/tomtom215/ticketai/internal/lifecycle"
	"github.com/tomtom215/ticketai/internal/metrics"
)

func startBus(t *testing.T) *Bus {
	t.Helper()

	bus := New(DefaultConfig(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bus.Run(ctx) }()

	select {
	case <-bus.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("bus stopped before ready: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("bus did not become ready")
	}

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(15 * time.Second):
			t.Error("bus did not stop")
		}
	})
	return bus
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func flagged(userID int, risk anomaly.RiskLevel, score float64) anomaly.Flagged {
	return anomaly.Flagged{
		Reservation: features.Reservation{UserID: userID, EventID: 7, TicketID: userID * 10, IPAddress: "10.0.0.1"},
		Prediction: anomaly.Prediction{
			UserID:       userID,
			IsAnomaly:    true,
			AnomalyScore: score,
			RiskLevel:    risk,
			Reasons:      []string{anomaly.ReasonSharedIP},
		},
	}
}

func TestBus_AnomaliesDetected(t *testing.T) {
	bus := startBus(t)
	before := testutil.ToFloat64(metrics.HighRiskReservations)

	bus.AnomaliesDetected(context.Background(), []anomaly.Flagged{
		flagged(1, anomaly.RiskHigh, -0.7),
		flagged(2, anomaly.RiskMedium, -0.3),
		flagged(3, anomaly.RiskHigh, -0.55),
	})

	waitFor(t, func() bool { return bus.HighRisk().Stats().Processed == 3 })

	stats := bus.HighRisk().Stats()
	if stats.Matched != 2 {
		t.Errorf("Matched = %d, want 2", stats.Matched)
	}
	if stats.ParseErrors != 0 {
		t.Errorf("ParseErrors = %d, want 0", stats.ParseErrors)
	}
	if got := testutil.ToFloat64(metrics.HighRiskReservations) - before; got != 2 {
		t.Errorf("high risk counter delta = %v, want 2", got)
	}
}

func TestBus_ModelTrained(t *testing.T) {
	bus := startBus(t)

	bus.ModelTrained(lifecycle.Info{
		Name:      "recommendation",
		Fitted:    true,
		Version:   4,
		TrainedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Samples:   480,
		Source:    lifecycle.SourceTrained,
	})

	waitFor(t, func() bool { return bus.Audit().Stats().Processed == 1 })
}

func TestBus_PublishWhenStopped(t *testing.T) {
	t.Parallel()

	bus := New(DefaultConfig(), zerolog.Nop())
	err := bus.Publish(TopicModelTrained, ModelTrained{Model: "anomaly"})
	if !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Publish error = %v, want ErrNotRunning", err)
	}

	// Hooks swallow the error.
	bus.ModelTrained(lifecycle.Info{Name: "anomaly"})
	bus.AnomaliesDetected(context.Background(), []anomaly.Flagged{flagged(1, anomaly.RiskHigh, -0.9)})
}

func TestHighRiskHandler_MalformedPayloadAcked(t *testing.T) {
	t.Parallel()

	h := NewHighRiskHandler(nil)
	if err := h.Handle(message.NewMessage("m-1", []byte("{not json"))); err != nil {
		t.Fatalf("Handle returned %v, want nil", err)
	}
	stats := h.Stats()
	if stats.ParseErrors != 1 || stats.Processed != 0 {
		t.Errorf("stats = %+v, want one parse error and nothing processed", stats)
	}
}

func TestHighRiskHandler_IgnoresLowerRisk(t *testing.T) {
	t.Parallel()

	body, err := json.Marshal(anomalyDetectedFromFlagged(flagged(5, anomaly.RiskLow, -0.1), time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	h := NewHighRiskHandler(nil)
	if err := h.Handle(message.NewMessage("m-2", body)); err != nil {
		t.Fatalf("Handle returned %v", err)
	}
	if got := h.Stats(); got.Processed != 1 || got.Matched != 0 {
		t.Errorf("stats = %+v, want processed 1 matched 0", got)
	}
}

func TestTrainingAuditHandler_Payload(t *testing.T) {
	t.Parallel()

	info := lifecycle.Info{Name: "anomaly", Version: 2, Samples: 1000, TrainedAt: time.Now().UTC()}
	body, err := json.Marshal(modelTrainedFromInfo(info))
	if err != nil {
		t.Fatal(err)
	}

	var decoded ModelTrained
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Model != "anomaly" || decoded.Version != 2 || decoded.Samples != 1000 {
		t.Errorf("decoded = %+v", decoded)
	}

	h := NewTrainingAuditHandler(nil)
	if err := h.Handle(message.NewMessage("m-3", body)); err != nil {
		t.Fatalf("Handle returned %v", err)
	}
	if h.Stats().Processed != 1 {
		t.Errorf("Processed = %d, want 1", h.Stats().Processed)
	}
}
