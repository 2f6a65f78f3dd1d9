package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/rewardwheel/internal/logger"
)

const (
	taskPending int32 = iota
	taskCancelled
	taskDone
)

// Loop is a cooperative event loop. Timers post due callbacks to a queue and a single
// goroutine drains it, so callbacks never overlap and run in posting order.
type Loop struct {
	queue chan *loopTask
	quit  chan struct{}
	done  chan struct{}

	mu      sync.Mutex
	pending map[*loopTask]struct{}
	stopped bool
}

type loopTask struct {
	loop  *Loop
	fn    func()
	timer *time.Timer
	state atomic.Int32
}

// NewLoop starts the loop goroutine. Call Stop to release it.
func NewLoop() *Loop {
	l := &Loop{
		queue:   make(chan *loopTask, loopQueueSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		pending: make(map[*loopTask]struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case t := <-l.queue:
			l.execute(t)
		case <-l.quit:
			return
		}
	}
}

func (l *Loop) execute(t *loopTask) {
	// a handle cancelled after its timer fired is still sitting in the queue
	if !t.state.CompareAndSwap(taskPending, taskDone) {
		return
	}
	l.forget(t)

	defer func() {
		if r := recover(); r != nil {
			logger.Error(LogMsgCallbackPanic, "panic", r)
		}
	}()
	t.fn()
}

// After schedules fn on the loop. Negative delays are treated as zero.
// After Stop it returns a handle that never runs.
func (l *Loop) After(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return noopHandle{}
	}

	t := &loopTask{loop: l, fn: fn}
	l.pending[t] = struct{}{}
	t.timer = time.AfterFunc(delay, func() {
		select {
		case l.queue <- t:
		case <-l.quit:
		}
	})
	return t
}

// Pending returns how many callbacks are scheduled but not yet run or cancelled
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Stop cancels every pending callback and waits for the loop goroutine to exit.
// Safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.stopped = true
	for t := range l.pending {
		if t.state.CompareAndSwap(taskPending, taskCancelled) {
			t.timer.Stop()
		}
	}
	l.pending = make(map[*loopTask]struct{})
	l.mu.Unlock()

	close(l.quit)
	<-l.done
	logger.Debug(LogMsgLoopStopped)
}

func (l *Loop) forget(t *loopTask) {
	l.mu.Lock()
	delete(l.pending, t)
	l.mu.Unlock()
}

func (t *loopTask) Cancel() bool {
	if !t.state.CompareAndSwap(taskPending, taskCancelled) {
		return false
	}
	t.timer.Stop()
	t.loop.forget(t)
	return true
}
