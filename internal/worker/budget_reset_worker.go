// Package worker runs background jobs on timers.
package worker

import (
	"context"
	"time"

	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/scheduler"
	"github.com/osse101/rewardwheel/internal/session"
)

// Resetter refills every live spin budget and reports how many sessions it touched
type Resetter interface {
	ResetAll() int
}

// BudgetResetWorker refills spin budgets at every local midnight of loc
type BudgetResetWorker struct {
	BaseWorker
	resetter Resetter
	bus      event.Bus
	loc      *time.Location
	now      func() time.Time
}

// NewBudgetResetWorker creates a worker. A nil bus discards events; a nil loc means UTC.
func NewBudgetResetWorker(resetter Resetter, bus event.Bus, sched scheduler.Scheduler, loc *time.Location) *BudgetResetWorker {
	if bus == nil {
		bus = event.Discard
	}
	if loc == nil {
		loc = time.UTC
	}
	w := &BudgetResetWorker{
		resetter: resetter,
		bus:      bus,
		loc:      loc,
		now:      scheduler.NowFunc(sched),
	}
	w.init(sched)
	return w
}

// Start schedules the first reset
func (w *BudgetResetWorker) Start() {
	w.scheduleNext()
}

// NextReset returns the boundary the worker is currently aiming at
func (w *BudgetResetWorker) NextReset() time.Time {
	return session.NextReset(w.now(), w.loc)
}

func (w *BudgetResetWorker) scheduleNext() {
	now := w.now()
	next := session.NextReset(now, w.loc)
	duration := next.Sub(now)
	log := logger.FromContext(context.Background())

	// Two-stage scheduling keeps a long wait from drifting past the boundary
	if duration > StandbyThreshold {
		wait := duration - StandbyLead
		w.arm(wait, w.scheduleNext)
		log.Info(LogMsgBudgetResetStandby, "next_check_at", now.Add(wait).UTC())
		return
	}

	w.arm(duration, w.fire)
	log.Info(LogMsgBudgetResetApproach, "next_reset_at", next.UTC())
}

func (w *BudgetResetWorker) fire() {
	if w.isShutdown() {
		return
	}

	// An early timer sees the same boundary still ahead; a punctual or late one sees the next day's
	now := w.now()
	if rem := session.NextReset(now, w.loc).Sub(now); rem > JitterTolerance && rem < lateWindow {
		logger.Debug(LogMsgBudgetResetRescheduled, "remaining", rem)
		w.scheduleNext()
		return
	}

	w.track(func() { w.execute(context.Background()) })
	w.scheduleNext()
}

// TriggerNow runs a reset immediately without disturbing the schedule. It returns the
// number of sessions refilled, or 0 once the worker has shut down.
func (w *BudgetResetWorker) TriggerNow(ctx context.Context) int {
	logger.FromContext(ctx).Info(LogMsgBudgetResetManualTrigger)
	affected := 0
	w.track(func() { affected = w.execute(ctx) })
	return affected
}

func (w *BudgetResetWorker) execute(ctx context.Context) int {
	log := logger.FromContext(ctx)
	log.Info(LogMsgBudgetResetStarting)

	affected := w.resetter.ResetAll()
	log.Info(LogMsgBudgetResetCompleted, "sessions_affected", affected)

	if err := w.bus.Publish(ctx, event.NewBudgetResetAllEvent(w.now().UTC(), affected)); err != nil {
		log.Error(LogMsgBudgetResetPublishFailed, "error", err)
	}
	return affected
}

// Shutdown cancels the pending timer and waits for any in-flight reset to complete
func (w *BudgetResetWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx, BudgetResetWorkerName)
}
