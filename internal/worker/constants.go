package worker

import "time"

// ============================================================================
// Scheduling
// ============================================================================

const (
	// StandbyThreshold is the distance to the boundary beyond which the worker only wakes up early
	StandbyThreshold = 1 * time.Hour

	// StandbyLead is how long before the boundary the standby wake-up lands
	StandbyLead = 45 * time.Minute

	// JitterTolerance is how early a final-approach timer may fire before it is rescheduled
	JitterTolerance = 10 * time.Second

	// lateWindow separates "fired early" from "fired on time or late" when checking jitter
	lateWindow = 23 * time.Hour
)

// BudgetResetWorkerName identifies the worker in logs
const BudgetResetWorkerName = "budget reset worker"

// ============================================================================
// Log Messages - Base Worker
// ============================================================================

const (
	LogMsgWorkerShuttingDown     = "Shutting down worker"
	LogMsgWorkerTimerCancelled   = "Cancelled pending worker execution"
	LogMsgWorkerShutdownComplete = "Worker shutdown complete"
	LogMsgWorkerShutdownTimeout  = "Worker shutdown timeout, executions may still be running"
)

// ============================================================================
// Log Messages - Budget Reset Worker
// ============================================================================

// Log messages for budget reset worker operations
const (
	LogMsgBudgetResetStarting      = "Budget reset starting"
	LogMsgBudgetResetCompleted     = "Budget reset completed"
	LogMsgBudgetResetPublishFailed = "Failed to publish budget reset event"
	LogMsgBudgetResetStandby       = "Budget reset standby scheduled"
	LogMsgBudgetResetApproach      = "Budget reset scheduled"
	LogMsgBudgetResetRescheduled   = "Budget reset timer fired early, rescheduling"
	LogMsgBudgetResetManualTrigger = "Budget reset manually triggered"
)
