package sse

import (
	"context"

	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/logger"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe forwards every wheel event type to the hub
func (s *Subscriber) Subscribe() {
	types := make([]string, 0, len(event.AllTypes))
	for _, t := range event.AllTypes {
		s.bus.Subscribe(t, s.forward)
		types = append(types, string(t))
	}
	logger.Info(LogMsgSubscriberReady, "types", types)
}

// forward rebroadcasts the typed payload unchanged, scoped to the event's user
func (s *Subscriber) forward(ctx context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.UserID(), evt.Payload)
	logger.FromContext(ctx).Debug(LogMsgEventBroadcast, "event_type", evt.Type, "user_id", evt.UserID())
	return nil
}
