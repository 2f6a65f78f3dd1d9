package bootstrap

import (
	"fmt"

	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/metrics"
	"github.com/osse101/rewardwheel/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Hub      *sse.Hub
}

// RegisterEventHandlers attaches the metrics collector and, when a hub is given,
// the SSE bridge that streams reveal events to connected clients.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	logger.Info(LogMsgMetricsCollectorRegistered)

	if deps.Hub != nil {
		sse.NewSubscriber(deps.Hub, deps.EventBus).Subscribe()
		logger.Info(LogMsgSSESubscriberRegistered)
	}
	return nil
}
