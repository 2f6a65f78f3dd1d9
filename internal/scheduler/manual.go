package scheduler

import (
	"sync"
	"time"
)

// Manual is a virtual-time scheduler. Nothing runs until Advance is called, and then
// callbacks run on the caller's goroutine ordered by due time, ties broken by the
// order they were scheduled.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	m    *Manual
	due  time.Time
	seq  uint64
	fn   func()
	done bool
}

// NewManual starts virtual time at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After schedules fn at Now()+delay
func (m *Manual) After(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{m: m, due: m.now.Add(delay), seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves virtual time forward by d, running every callback that falls due,
// including ones scheduled by callbacks during the advance.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		idx := m.nextDue(target)
		if idx < 0 {
			m.now = target
			m.mu.Unlock()
			return
		}
		t := m.tasks[idx]
		m.tasks = append(m.tasks[:idx], m.tasks[idx+1:]...)
		t.done = true
		m.now = t.due
		m.mu.Unlock()

		t.fn()
	}
}

// nextDue returns the index of the earliest task due at or before target, or -1
func (m *Manual) nextDue(target time.Time) int {
	best := -1
	for i, t := range m.tasks {
		if t.due.After(target) {
			continue
		}
		if best < 0 || t.due.Before(m.tasks[best].due) ||
			(t.due.Equal(m.tasks[best].due) && t.seq < m.tasks[best].seq) {
			best = i
		}
	}
	return best
}

// Pending returns the number of callbacks not yet run or cancelled
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (t *manualTask) Cancel() bool {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, other := range m.tasks {
		if other == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			break
		}
	}
	return true
}
