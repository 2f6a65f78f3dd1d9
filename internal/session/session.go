// Package session ties the resolver and the reveal sequencer to a daily spin budget.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/random"
	"github.com/osse101/rewardwheel/internal/reveal"
	"github.com/osse101/rewardwheel/internal/wheel"
)

// Config holds per-session settings
type Config struct {
	UserID   string
	MaxSpins int
	Location *time.Location   // reset boundary zone; UTC when nil
	Bus      event.Bus        // event.Discard when nil
	Now      func() time.Time // time.Now when nil
}

// Snapshot is a point-in-time view of a session
type Snapshot struct {
	SessionID  string          `json:"session_id"`
	UserID     string          `json:"user_id"`
	Budget     domain.Budget   `json:"budget"`
	Phase      domain.Phase    `json:"phase"`
	Generation uint64          `json:"generation"`
	Revealed   *domain.Outcome `json:"revealed,omitempty"`
}

// Session owns one user's budget and reveal sequencer. Spins are serialized; the
// outcome becomes visible through Revealed only after the ceremony settles.
type Session struct {
	id     string
	userID string
	table  *wheel.Table
	src    random.Source
	seq    *reveal.Sequencer
	bus    event.Bus
	now    func() time.Time
	loc    *time.Location
	tracer trace.Tracer

	spinMu sync.Mutex // serializes Spin so generations are predictable

	mu         sync.Mutex
	budget     domain.Budget
	pending    *domain.Outcome
	pendingGen uint64
	revealed   *domain.Outcome
	closed     bool
}

// New builds a session with a full budget. src defaults to the crypto source.
func New(cfg Config, table *wheel.Table, src random.Source, seq *reveal.Sequencer) (*Session, error) {
	if cfg.MaxSpins < 1 {
		return nil, fmt.Errorf("%w: max spins must be at least 1, got %d", domain.ErrInvalidConfiguration, cfg.MaxSpins)
	}
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: session needs a non-empty table", domain.ErrInvalidConfiguration)
	}
	if seq == nil {
		return nil, fmt.Errorf("%w: session needs a reveal sequencer", domain.ErrInvalidConfiguration)
	}
	if src == nil {
		src = random.NewCryptoSource()
	}

	s := &Session{
		id:     uuid.NewString(),
		userID: cfg.UserID,
		table:  table,
		src:    src,
		seq:    seq,
		bus:    cfg.Bus,
		now:    cfg.Now,
		loc:    cfg.Location,
		tracer: otel.Tracer(TracerName),
	}
	if s.bus == nil {
		s.bus = event.Discard
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	s.budget = domain.Budget{
		Remaining: cfg.MaxSpins,
		Max:       cfg.MaxSpins,
		ResetAt:   NextReset(s.now(), s.loc),
	}

	seq.AddObserver(s.onPhaseChange)
	seq.AddCancelHook(s.onRevealCancelled)
	return s, nil
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// UserID returns the owning user
func (s *Session) UserID() string { return s.userID }

// Spin draws and resolves an outcome, consumes one spin and starts the reveal.
// The outcome is returned immediately for the caller's records; presentation should
// wait for Revealed. A spin consumed here is not refunded if the reveal is torn down.
func (s *Session) Spin(ctx context.Context) (domain.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, SpanSpin, trace.WithAttributes(
		attribute.String(AttrUserID, s.userID),
		attribute.String(AttrSessionID, s.id),
	))
	defer span.End()
	log := logger.FromContext(ctx)

	s.spinMu.Lock()
	defer s.spinMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		span.SetStatus(codes.Error, domain.ErrMsgSessionClosed)
		return domain.Outcome{}, domain.ErrSessionClosed
	}
	s.refillIfDueLocked()

	if s.budget.Remaining == 0 {
		resetAt := s.budget.ResetAt
		s.mu.Unlock()

		log.Info(LogMsgSpinRejected, "user_id", s.userID, "reset_at", resetAt)
		s.publish(ctx, event.NewSpinRejectedEvent(s.id, s.userID, resetAt))
		span.SetAttributes(attribute.Int(AttrRemaining, 0))
		span.SetStatus(codes.Error, domain.ErrMsgBudgetExhausted)
		return domain.Outcome{}, ErrBudgetExhausted{ResetAt: resetAt}
	}

	outcome, err := wheel.Resolve(s.table, s.src.Next())
	if err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Outcome{}, err
	}

	s.budget.Remaining--
	remaining := s.budget.Remaining
	gen := s.seq.Generation() + 1
	s.pending = &outcome
	s.pendingGen = gen
	s.revealed = nil
	s.mu.Unlock()

	// the sequencer calls back into onRevealCancelled, so trigger without s.mu
	if _, err := s.seq.Trigger(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Outcome{}, err
	}

	span.SetAttributes(
		attribute.Int(AttrRemaining, remaining),
		attribute.String(AttrOutcomeID, outcome.ID),
		attribute.String(AttrRarity, string(outcome.Rarity)),
		attribute.Int64(AttrGeneration, int64(gen)),
	)
	log.Info(LogMsgSpinResolved, "user_id", s.userID, "outcome", outcome.ID, "rarity", outcome.Rarity, "remaining", remaining)
	s.publish(ctx, event.NewSpinResolvedEvent(s.id, s.userID, gen, remaining, outcome.Rarity))

	return outcome, nil
}

// Reset refills the budget and moves the next reset boundary forward. It does not
// touch a reveal in progress.
func (s *Session) Reset() {
	s.mu.Lock()
	s.budget.Remaining = s.budget.Max
	s.budget.ResetAt = NextReset(s.now(), s.loc)
	budget := s.budget
	s.mu.Unlock()

	logger.Debug(LogMsgBudgetRefilled, "user_id", s.userID, "remaining", budget.Remaining)
	s.publish(context.Background(), event.NewBudgetResetEvent(s.id, s.userID, budget.Remaining, budget.ResetAt))
}

// Revealed returns the outcome of the latest settled ceremony
func (s *Session) Revealed() (domain.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revealed == nil {
		return domain.Outcome{}, false
	}
	return *s.revealed, true
}

// Budget returns the current allowance
func (s *Session) Budget() domain.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refillIfDueLocked()
	return s.budget
}

// Snapshot returns budget, phase and revealed outcome together
func (s *Session) Snapshot() Snapshot {
	phase, gen := s.seq.Phase(), s.seq.Generation()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refillIfDueLocked()

	snap := Snapshot{
		SessionID:  s.id,
		UserID:     s.userID,
		Budget:     s.budget,
		Phase:      phase,
		Generation: gen,
	}
	if s.revealed != nil {
		o := *s.revealed
		snap.Revealed = &o
	}
	return snap
}

// RestoreBudget carries a budget over from an earlier session of the same user.
// A budget whose reset boundary has already passed is ignored.
func (s *Session) RestoreBudget(b domain.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.now().Before(b.ResetAt) {
		return
	}
	s.budget.Remaining = min(max(b.Remaining, 0), s.budget.Max)
	s.budget.ResetAt = b.ResetAt
}

// Close tears down the reveal sequencer; later spins fail with ErrSessionClosed.
// A spin in flight completes first. Safe to call more than once.
func (s *Session) Close() {
	s.spinMu.Lock()
	defer s.spinMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.seq.Close()
	logger.Debug(LogMsgSessionClosed, "user_id", s.userID, "session_id", s.id)
}

// refillIfDueLocked applies a reset boundary that passed without a scheduled reset
func (s *Session) refillIfDueLocked() {
	if s.now().Before(s.budget.ResetAt) {
		return
	}
	s.budget.Remaining = s.budget.Max
	s.budget.ResetAt = NextReset(s.now(), s.loc)
}

func (s *Session) onPhaseChange(change domain.PhaseChange) {
	ctx := context.Background()
	s.publish(ctx, event.NewPhaseChangedEvent(s.id, s.userID, change))

	if change.Phase != domain.PhaseSettled {
		return
	}

	s.mu.Lock()
	if s.pending == nil || s.pendingGen != change.Generation {
		s.mu.Unlock()
		return
	}
	outcome := *s.pending
	s.revealed = s.pending
	s.pending = nil
	s.mu.Unlock()

	logger.Debug(LogMsgRevealSettled, "user_id", s.userID, "outcome", outcome.ID, "generation", change.Generation)
	s.publish(ctx, event.NewRevealSettledEvent(s.id, s.userID, change.Generation, outcome))
}

func (s *Session) onRevealCancelled(generation uint64, reached domain.Phase, _ int) {
	s.mu.Lock()
	if s.pendingGen == generation {
		s.pending = nil
	}
	s.mu.Unlock()

	logger.Debug(LogMsgRevealCancelled, "user_id", s.userID, "generation", generation, "reached", reached)
	s.publish(context.Background(), event.NewRevealCancelledEvent(s.id, s.userID, generation, reached))
}

func (s *Session) publish(ctx context.Context, evt event.Event) {
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}
