package bootstrap

import "time"

// Log files are named session_<timestamp>.log; the newest LogFileRetentionCount
// older files survive each start.
const (
	DirPermission          = 0o755
	LogFilePermission      = 0o666
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"
	LogFileRetentionCount  = 9
)

// Publisher retries back off exponentially from EventDefaultRetryDelay
const (
	EventDefaultMaxRetries     = 5
	EventDefaultRetryDelay     = 2 * time.Second
	EventDefaultDeadLetterPath = "logs/dead_letter.jsonl"
)

// Startup
const (
	LogMsgLoggingInitialized         = "Logging initialized"
	LogMsgStartingRewardWheel        = "Starting reward wheel"
	LogMsgConfigurationLoaded        = "Configuration loaded"
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgWheelInitialized           = "Wheel initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgSSESubscriberRegistered    = "SSE subscriber registered"
	LogMsgFailedDeleteOldLog         = "Failed to delete old log file"
)

// Wrapped error prefixes returned from the Initialize* functions
const (
	LogMsgFailedCreateLogsDir            = "failed to create logs directory"
	LogMsgFailedOpenLogFile              = "failed to open log file"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	ErrMsgFailedLoadWheel                = "failed to load wheel config"
	ErrMsgInvalidWheel                   = "invalid wheel table"
	ErrMsgInvalidRevealSteps             = "invalid reveal phases"
	ErrMsgFailedRegisterMetrics          = "failed to register metrics collector"
)

// Shutdown
const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgBudgetWorkerFailed         = "Budget reset worker shutdown failed"
	LogMsgSessionsClosed             = "Spin sessions closed"
)
