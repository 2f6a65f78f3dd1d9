package domain

// Event type constants used across the application for event bus subscriptions,
// SSE streaming and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "spin.resolved")
const (
	// EventTypeSpinResolved is published when a spin consumes budget and an outcome is drawn
	EventTypeSpinResolved = "spin.resolved"

	// EventTypeSpinRejected is published when a spin is refused because the budget is exhausted
	EventTypeSpinRejected = "spin.rejected"

	// EventTypePhaseChanged is published for every reveal transition
	EventTypePhaseChanged = "reveal.phase_changed"

	// EventTypeRevealSettled is published once the reveal reaches Settled and the outcome is visible
	EventTypeRevealSettled = "reveal.settled"

	// EventTypeRevealCancelled is published when a reset or teardown drops pending transitions
	EventTypeRevealCancelled = "reveal.cancelled"

	// EventTypeBudgetReset is published when a single session's budget is refilled
	EventTypeBudgetReset = "budget.reset"

	// EventTypeBudgetResetAll is published when the daily boundary refills every live session
	EventTypeBudgetResetAll = "budget.reset_all"
)
