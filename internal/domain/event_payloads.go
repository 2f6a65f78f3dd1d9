package domain

import "time"

// SpinResolvedPayload fires as soon as an outcome is drawn. The outcome itself is
// withheld until RevealSettledPayload.
type SpinResolvedPayload struct {
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id"`
	Generation uint64 `json:"generation"`
	Remaining  int    `json:"remaining"`
	Rarity     Rarity `json:"rarity"`
	Timestamp  int64  `json:"timestamp"`
}

// SpinRejectedPayload fires when a spin hits an empty budget
type SpinRejectedPayload struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	ResetAt   time.Time `json:"reset_at"`
	Timestamp int64     `json:"timestamp"`
}

// PhaseChangedPayload carries one reveal transition to the presentation layer
type PhaseChangedPayload struct {
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id"`
	Phase      Phase  `json:"phase"`
	OffsetMs   int64  `json:"offset_ms"`
	Generation uint64 `json:"generation"`
}

// RevealSettledPayload is the terminal notification of a ceremony
type RevealSettledPayload struct {
	SessionID  string  `json:"session_id"`
	UserID     string  `json:"user_id"`
	Generation uint64  `json:"generation"`
	Outcome    Outcome `json:"outcome"`
}

// RevealCancelledPayload fires when pending transitions were dropped
type RevealCancelledPayload struct {
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id"`
	Generation uint64 `json:"generation"`
	Phase      Phase  `json:"phase"` // phase reached before cancellation
}

// BudgetResetPayload fires when one session's budget is refilled
type BudgetResetPayload struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// BudgetResetAllPayload fires after the scheduled daily refill
type BudgetResetAllPayload struct {
	ResetTime        time.Time `json:"reset_time"`
	SessionsAffected int       `json:"sessions_affected"`
}
