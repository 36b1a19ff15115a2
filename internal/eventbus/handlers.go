// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package eventbus

import (
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/ticketai/internal/anomaly"
	"github.com/tomtom215/ticketai/internal/metrics"
)

// HandlerStats is a snapshot of a handler's counters.
type HandlerStats struct {
	Received    int64
	Processed   int64
	ParseErrors int64
	Matched     int64
}

type handlerCounters struct {
	received    atomic.Int64
	processed   atomic.Int64
	parseErrors atomic.Int64
	matched     atomic.Int64
}

func (c *handlerCounters) stats() HandlerStats {
	return HandlerStats{
		Received:    c.received.Load(),
		Processed:   c.processed.Load(),
		ParseErrors: c.parseErrors.Load(),
		Matched:     c.matched.Load(),
	}
}

// HighRiskHandler consumes anomaly.detected and escalates HIGH risk
// reservations to the log. Matched counts HIGH risk messages.
type HighRiskHandler struct {
	logger   watermill.LoggerAdapter
	counters handlerCounters
}

// NewHighRiskHandler creates the handler.
func NewHighRiskHandler(logger watermill.LoggerAdapter) *HighRiskHandler {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	return &HighRiskHandler{logger: logger}
}

// Handle processes one message. Malformed payloads are acked.
func (h *HighRiskHandler) Handle(msg *message.Message) error {
	h.counters.received.Add(1)

	var event AnomalyDetected
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		h.counters.parseErrors.Add(1)
		metrics.RecordEventHandled(TopicAnomalyDetected, err)
		h.logger.Error("Failed to parse anomaly event", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return nil
	}

	if event.RiskLevel == anomaly.RiskHigh {
		h.counters.matched.Add(1)
		metrics.HighRiskReservations.Inc()
		h.logger.Info("HIGH risk reservation detected", watermill.LogFields{
			"user_id":       event.UserID,
			"event_id":      event.EventID,
			"ticket_id":     event.TicketID,
			"ip_address":    event.IPAddress,
			"anomaly_score": event.AnomalyScore,
			"reasons":       event.Reasons,
		})
	}

	h.counters.processed.Add(1)
	metrics.RecordEventHandled(TopicAnomalyDetected, nil)
	return nil
}

// Stats returns the handler counters.
func (h *HighRiskHandler) Stats() HandlerStats { return h.counters.stats() }

// TrainingAuditHandler consumes model.trained and writes one audit line
// per published model version.
type TrainingAuditHandler struct {
	logger   watermill.LoggerAdapter
	counters handlerCounters
}

// NewTrainingAuditHandler creates the handler.
func NewTrainingAuditHandler(logger watermill.LoggerAdapter) *TrainingAuditHandler {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	return &TrainingAuditHandler{logger: logger}
}

// Handle processes one message. Malformed payloads are acked.
func (h *TrainingAuditHandler) Handle(msg *message.Message) error {
	h.counters.received.Add(1)

	var event ModelTrained
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		h.counters.parseErrors.Add(1)
		metrics.RecordEventHandled(TopicModelTrained, err)
		h.logger.Error("Failed to parse model.trained event", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return nil
	}

	h.counters.matched.Add(1)
	h.logger.Info("Model version published", watermill.LogFields{
		"model":      event.Model,
		"version":    event.Version,
		"samples":    event.Samples,
		"trained_at": event.TrainedAt,
	})

	h.counters.processed.Add(1)
	metrics.RecordEventHandled(TopicModelTrained, nil)
	return nil
}

// Stats returns the handler counters.
func (h *TrainingAuditHandler) Stats() HandlerStats { return h.counters.stats() }
