package metrics

import (
	"context"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/logger"
)

// EventMetricsCollector subscribes to wheel events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all wheel events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.SpinResolved:
		payload, err := event.DecodePayload[domain.SpinResolvedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		SpinsTotal.WithLabelValues(string(payload.Rarity)).Inc()

	case event.SpinRejected:
		SpinsRejected.Inc()

	case event.PhaseChanged:
		payload, err := event.DecodePayload[domain.PhaseChangedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		RevealTransitions.WithLabelValues(payload.Phase.String()).Inc()

	case event.RevealCancelled:
		RevealCancellations.Inc()

	case event.BudgetResetAll:
		BudgetResets.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
