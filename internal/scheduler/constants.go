package scheduler

// loopQueueSize bounds callbacks waiting for the loop goroutine; timers block beyond it
const loopQueueSize = 64

// Log messages
const (
	LogMsgLoopStopped   = "Scheduler loop stopped"
	LogMsgCallbackPanic = "Scheduled callback panicked"
)
