// Package scheduler provides cancellable delayed callbacks. Loop runs them on a single
// goroutine in wall-clock time; Manual runs them in virtual time for tests.
package scheduler

import (
	"time"
)

// Handle is a scheduled callback that has not necessarily run yet
type Handle interface {
	// Cancel prevents the callback from running. It reports whether the callback
	// was still pending; false means it already ran or was already cancelled.
	Cancel() bool
}

// Scheduler runs fn once after delay unless the returned handle is cancelled first
type Scheduler interface {
	After(delay time.Duration, fn func()) Handle
}

// Clock is implemented by schedulers that own their notion of time
type Clock interface {
	Now() time.Time
}

// NowFunc returns the clock of s when it has one, otherwise time.Now
func NowFunc(s Scheduler) func() time.Time {
	if c, ok := s.(Clock); ok {
		return c.Now
	}
	return time.Now
}

type noopHandle struct{}

func (noopHandle) Cancel() bool { return false }
