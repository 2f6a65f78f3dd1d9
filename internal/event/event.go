package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/rewardwheel/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// UserID returns the user the event concerns, or "" for broadcast events
func (e Event) UserID() string {
	id, _ := e.GetMetadataValue(MetadataKeyUserID).(string)
	return id
}

// Wheel event types
const (
	SpinResolved    = Type(domain.EventTypeSpinResolved)
	SpinRejected    = Type(domain.EventTypeSpinRejected)
	PhaseChanged    = Type(domain.EventTypePhaseChanged)
	RevealSettled   = Type(domain.EventTypeRevealSettled)
	RevealCancelled = Type(domain.EventTypeRevealCancelled)
	BudgetReset     = Type(domain.EventTypeBudgetReset)
	BudgetResetAll  = Type(domain.EventTypeBudgetResetAll)
)

// AllTypes lists every event the wheel publishes
var AllTypes = []Type{
	SpinResolved, SpinRejected, PhaseChanged, RevealSettled, RevealCancelled, BudgetReset, BudgetResetAll,
}

func userMetadata(sessionID, userID string) map[string]interface{} {
	return map[string]interface{}{
		MetadataKeyUserID:    userID,
		MetadataKeySessionID: sessionID,
	}
}

// NewSpinResolvedEvent creates a spin resolved event. The outcome stays hidden until settle.
func NewSpinResolvedEvent(sessionID, userID string, generation uint64, remaining int, rarity domain.Rarity) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinResolved,
		Payload: domain.SpinResolvedPayload{
			SessionID:  sessionID,
			UserID:     userID,
			Generation: generation,
			Remaining:  remaining,
			Rarity:     rarity,
			Timestamp:  time.Now().Unix(),
		},
		Metadata: userMetadata(sessionID, userID),
	}
}

// NewSpinRejectedEvent creates a spin rejected event
func NewSpinRejectedEvent(sessionID, userID string, resetAt time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinRejected,
		Payload: domain.SpinRejectedPayload{
			SessionID: sessionID,
			UserID:    userID,
			ResetAt:   resetAt,
			Timestamp: time.Now().Unix(),
		},
		Metadata: userMetadata(sessionID, userID),
	}
}

// NewPhaseChangedEvent creates a reveal transition event
func NewPhaseChangedEvent(sessionID, userID string, change domain.PhaseChange) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PhaseChanged,
		Payload: domain.PhaseChangedPayload{
			SessionID:  sessionID,
			UserID:     userID,
			Phase:      change.Phase,
			OffsetMs:   change.OffsetMs,
			Generation: change.Generation,
		},
		Metadata: userMetadata(sessionID, userID),
	}
}

// NewRevealSettledEvent creates the terminal reveal event carrying the outcome
func NewRevealSettledEvent(sessionID, userID string, generation uint64, outcome domain.Outcome) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RevealSettled,
		Payload: domain.RevealSettledPayload{
			SessionID:  sessionID,
			UserID:     userID,
			Generation: generation,
			Outcome:    outcome,
		},
		Metadata: userMetadata(sessionID, userID),
	}
}

// NewRevealCancelledEvent creates a reveal cancelled event
func NewRevealCancelledEvent(sessionID, userID string, generation uint64, reached domain.Phase) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RevealCancelled,
		Payload: domain.RevealCancelledPayload{
			SessionID:  sessionID,
			UserID:     userID,
			Generation: generation,
			Phase:      reached,
		},
		Metadata: userMetadata(sessionID, userID),
	}
}

// NewBudgetResetEvent creates a per-session budget reset event
func NewBudgetResetEvent(sessionID, userID string, remaining int, resetAt time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BudgetReset,
		Payload: domain.BudgetResetPayload{
			SessionID: sessionID,
			UserID:    userID,
			Remaining: remaining,
			ResetAt:   resetAt,
		},
		Metadata: userMetadata(sessionID, userID),
	}
}

// NewBudgetResetAllEvent creates the daily refill event
func NewBudgetResetAllEvent(resetTime time.Time, sessionsAffected int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BudgetResetAll,
		Payload: domain.BudgetResetAllPayload{
			ResetTime:        resetTime,
			SessionsAffected: sessionsAffected,
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously; handler errors are collected, not short-circuited
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Discard is a Bus that drops everything; sessions built without a bus use it
var Discard Bus = discardBus{}

type discardBus struct{}

func (discardBus) Publish(context.Context, Event) error { return nil }
func (discardBus) Subscribe(Type, Handler)              {}
