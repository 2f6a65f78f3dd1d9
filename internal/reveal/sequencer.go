// Package reveal drives the staged reveal ceremony that follows a spin: a declarative
// list of phases, each entered at a fixed offset from the trigger.
package reveal

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/scheduler"
)

// Observer receives every phase transition. Observers run outside the sequencer lock
// and may call back into it.
type Observer func(domain.PhaseChange)

// CancelHook is told when a reset interrupts a ceremony before it settled. reached is
// the last phase entered, Idle if none had fired yet.
type CancelHook func(generation uint64, reached domain.Phase, pendingCancelled int)

// Option configures a Sequencer
type Option func(*Sequencer)

// WithObserver adds a transition observer
func WithObserver(fn Observer) Option {
	return func(s *Sequencer) { s.observers = append(s.observers, fn) }
}

// WithCancelHook adds a hook for interrupted ceremonies
func WithCancelHook(fn CancelHook) Option {
	return func(s *Sequencer) { s.cancelHooks = append(s.cancelHooks, fn) }
}

// WithClock overrides the time source used to stamp transitions
func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) { s.now = now }
}

// Sequencer walks the phase list with at most one pending transition at a time.
// A reset or re-trigger cancels that transition, so a superseded ceremony never
// produces another notification.
type Sequencer struct {
	sched       scheduler.Scheduler
	steps       []domain.RevealStep
	observers   []Observer
	cancelHooks []CancelHook
	now         func() time.Time

	mu         sync.Mutex
	phase      domain.Phase
	generation uint64
	epoch      uint64 // bumped on every trigger and reset; callbacks from older epochs are dropped
	pending    scheduler.Group
	closed     bool
}

// NewSequencer validates steps and builds an idle sequencer
func NewSequencer(steps []domain.RevealStep, sched scheduler.Scheduler, opts ...Option) (*Sequencer, error) {
	if sched == nil {
		return nil, fmt.Errorf("%w: sequencer needs a scheduler", domain.ErrInvalidConfiguration)
	}
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}

	s := &Sequencer{
		sched: sched,
		steps: append([]domain.RevealStep(nil), steps...),
		now:   scheduler.NowFunc(sched),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ValidateSteps checks that phases ascend strictly from Armed towards Settled, offsets
// never decrease, and the list ends in Settled.
func ValidateSteps(steps []domain.RevealStep) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: reveal has no phases", domain.ErrInvalidConfiguration)
	}

	prevPhase := domain.PhaseIdle
	var prevOffset time.Duration
	for i, step := range steps {
		switch {
		case step.Offset < 0:
			return fmt.Errorf("%w: phase %s has negative offset %s", domain.ErrInvalidConfiguration, step.Phase, step.Offset)
		case step.Offset < prevOffset:
			return fmt.Errorf("%w: phase %s offset %s is before %s", domain.ErrInvalidConfiguration, step.Phase, step.Offset, prevOffset)
		case step.Phase <= prevPhase || step.Phase > domain.PhaseSettled:
			return fmt.Errorf("%w: phase %s at position %d is out of order", domain.ErrInvalidConfiguration, step.Phase, i)
		}
		prevPhase = step.Phase
		prevOffset = step.Offset
	}

	if prevPhase != domain.PhaseSettled {
		return fmt.Errorf("%w: reveal must end in %s", domain.ErrInvalidConfiguration, domain.PhaseSettled)
	}
	return nil
}

// Trigger starts a new ceremony and returns its generation. A ceremony already in
// progress (or settled) is reset first.
func (s *Sequencer) Trigger() (uint64, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, domain.ErrSequencerClosed
	}

	interrupted := s.resetLocked()

	s.generation++
	s.epoch++
	gen := s.generation
	s.scheduleLocked(s.epoch, gen, 0)
	s.mu.Unlock()

	s.notifyCancel(interrupted)
	return gen, nil
}

// Reset cancels pending transitions and returns to Idle. A no-op when already idle.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	interrupted := s.resetLocked()
	s.mu.Unlock()

	s.notifyCancel(interrupted)
}

// Close resets and refuses further triggers. Safe to call more than once.
func (s *Sequencer) Close() {
	s.mu.Lock()
	s.closed = true
	interrupted := s.resetLocked()
	s.mu.Unlock()

	s.notifyCancel(interrupted)
}

// AddObserver attaches an observer after construction
func (s *Sequencer) AddObserver(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// AddCancelHook attaches a cancel hook after construction
func (s *Sequencer) AddCancelHook(fn CancelHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelHooks = append(s.cancelHooks, fn)
}

// Phase returns the current phase
func (s *Sequencer) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Generation returns the number of ceremonies started so far
func (s *Sequencer) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Active reports whether a ceremony is underway and not yet settled
func (s *Sequencer) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Len() > 0
}

// Steps returns a copy of the phase list
func (s *Sequencer) Steps() []domain.RevealStep {
	return append([]domain.RevealStep(nil), s.steps...)
}

type interruption struct {
	generation uint64
	reached    domain.Phase
	cancelled  int
	hooks      []CancelHook
}

// resetLocked returns nil when there was nothing to reset or the ceremony had settled
func (s *Sequencer) resetLocked() *interruption {
	if s.phase == domain.PhaseIdle && s.pending.Len() == 0 {
		return nil
	}

	cancelled := s.pending.CancelAll()
	reached := s.phase
	s.phase = domain.PhaseIdle
	s.epoch++

	if reached == domain.PhaseSettled {
		return nil
	}
	return &interruption{
		generation: s.generation,
		reached:    reached,
		cancelled:  cancelled,
		hooks:      append([]CancelHook(nil), s.cancelHooks...),
	}
}

func (s *Sequencer) scheduleLocked(epoch, gen uint64, idx int) {
	delay := s.steps[idx].Offset
	if idx > 0 {
		delay -= s.steps[idx-1].Offset
	}

	// The key exists before the timer does; fire then blocks on s.mu until TrackAs has run.
	id := uuid.New()
	h := s.sched.After(delay, func() { s.fire(epoch, gen, idx, id) })
	s.pending.TrackAs(id, h)
}

func (s *Sequencer) fire(epoch, gen uint64, idx int, id uuid.UUID) {
	s.mu.Lock()
	s.pending.Forget(id)
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}

	step := s.steps[idx]
	s.phase = step.Phase
	change := domain.PhaseChange{
		Phase:      step.Phase,
		OffsetMs:   step.Offset.Milliseconds(),
		Generation: gen,
		At:         s.now(),
	}
	if idx+1 < len(s.steps) {
		s.scheduleLocked(epoch, gen, idx+1)
	}
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, obs := range observers {
		obs(change)
	}
}

func (s *Sequencer) notifyCancel(in *interruption) {
	if in == nil {
		return
	}
	for _, hook := range in.hooks {
		hook(in.generation, in.reached, in.cancelled)
	}
}
