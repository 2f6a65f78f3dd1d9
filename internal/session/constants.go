package session

// TracerName identifies spans emitted by this package
const TracerName = "github.com/osse101/rewardwheel/internal/session"

// Span names and attribute keys
const (
	SpanSpin = "session.Spin"

	AttrUserID     = "wheel.user_id"
	AttrSessionID  = "wheel.session_id"
	AttrRemaining  = "wheel.remaining"
	AttrOutcomeID  = "wheel.outcome_id"
	AttrRarity     = "wheel.rarity"
	AttrGeneration = "wheel.generation"
)

// Log messages
const (
	LogMsgSpinResolved    = "Spin resolved"
	LogMsgSpinRejected    = "Spin rejected, budget exhausted"
	LogMsgBudgetRefilled  = "Budget refilled"
	LogMsgRevealSettled   = "Reveal settled"
	LogMsgRevealCancelled = "Reveal cancelled before settling"
	LogMsgPublishFailed   = "Failed to publish session event"
	LogMsgSessionClosed   = "Session closed"
)

// Error message format for ErrBudgetExhausted.Error()
const ErrFmtBudgetExhausted = "%s, next reset at %s"
