package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Configuration errors (bad table or phase list, detected at construction)
	ErrMsgInvalidConfiguration = "invalid configuration"

	// Argument errors (programmer error, e.g. a draw outside [0,1))
	ErrMsgInvalidArgument = "invalid argument"

	// Budget errors
	ErrMsgBudgetExhausted = "no spins remaining"

	// Sequencer errors
	ErrMsgSequencerClosed = "reveal sequencer is closed"

	// Session errors
	ErrMsgSessionClosed = "spin session is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrInvalidConfiguration is fatal and never retried
	ErrInvalidConfiguration = errors.New(ErrMsgInvalidConfiguration)

	// ErrInvalidArgument is fatal and never retried
	ErrInvalidArgument = errors.New(ErrMsgInvalidArgument)

	// ErrBudgetExhausted is an expected control-flow signal, not a crash
	ErrBudgetExhausted = errors.New(ErrMsgBudgetExhausted)

	ErrSequencerClosed = errors.New(ErrMsgSequencerClosed)
	ErrSessionClosed   = errors.New(ErrMsgSessionClosed)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
