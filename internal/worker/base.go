package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/scheduler"
)

// BaseWorker provides common functionality for background workers that keep one pending timer
type BaseWorker struct {
	mu        sync.Mutex
	sched     scheduler.Scheduler
	pending   scheduler.Handle
	shutdown  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func (w *BaseWorker) init(sched scheduler.Scheduler) {
	w.sched = sched
	if w.shutdown == nil {
		w.shutdown = make(chan struct{})
	}
}

// arm replaces the pending timer. It is a no-op once shutdown has begun.
func (w *BaseWorker) arm(delay time.Duration, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isShutdown() {
		return
	}
	if w.pending != nil {
		w.pending.Cancel()
	}
	w.pending = w.sched.After(delay, fn)
}

func (w *BaseWorker) isShutdown() bool {
	select {
	case <-w.shutdown:
		return true
	default:
		return false
	}
}

// track runs fn as an in-flight execution that shutdown waits for
func (w *BaseWorker) track(fn func()) bool {
	w.mu.Lock()
	if w.isShutdown() {
		w.mu.Unlock()
		return false
	}
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	fn()
	return true
}

func (w *BaseWorker) shutdownInternal(ctx context.Context, workerName string) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgWorkerShuttingDown, "worker", workerName)

	w.mu.Lock()
	w.closeOnce.Do(func() { close(w.shutdown) })
	if w.pending != nil {
		if w.pending.Cancel() {
			log.Info(LogMsgWorkerTimerCancelled, "worker", workerName)
		}
		w.pending = nil
	}
	w.mu.Unlock()

	// Wait for in-flight executions
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgWorkerShutdownComplete, "worker", workerName)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgWorkerShutdownTimeout, "worker", workerName)
		return ctx.Err()
	}
}
