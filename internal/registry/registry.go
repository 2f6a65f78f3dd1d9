// Package registry keeps one spin session per user in a bounded, expiring cache.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/metrics"
	"github.com/osse101/rewardwheel/internal/random"
	"github.com/osse101/rewardwheel/internal/reveal"
	"github.com/osse101/rewardwheel/internal/scheduler"
	"github.com/osse101/rewardwheel/internal/session"
	"github.com/osse101/rewardwheel/internal/wheel"
)

// Log messages
const (
	LogMsgSessionCreated = "Spin session created"
	LogMsgSessionEvicted = "Spin session evicted"
	LogMsgBudgetsReset   = "Budgets reset for all sessions"
	LogMsgBudgetCarried  = "Budget carried over from a closed session"
)

// Factory builds a new session for a user on cache miss
type Factory func(userID string) (*session.Session, error)

// FactoryConfig carries the shared dependencies every session is built from
type FactoryConfig struct {
	Table     *wheel.Table
	Steps     []domain.RevealStep
	Scheduler scheduler.Scheduler
	Source    random.Source
	Bus       event.Bus
	MaxSpins  int
	Location  *time.Location
	Now       func() time.Time
}

// NewFactory returns a Factory giving each user a sequencer of their own on the shared scheduler
func NewFactory(cfg FactoryConfig) Factory {
	return func(userID string) (*session.Session, error) {
		seq, err := reveal.NewSequencer(cfg.Steps, cfg.Scheduler)
		if err != nil {
			return nil, err
		}
		return session.New(session.Config{
			UserID:   userID,
			MaxSpins: cfg.MaxSpins,
			Location: cfg.Location,
			Bus:      cfg.Bus,
			Now:      cfg.Now,
		}, cfg.Table, cfg.Source, seq)
	}
}

// Registry maps user ids to live sessions. Evicted, expired or removed sessions are
// closed, which cancels any reveal they still had pending. A user whose session goes
// away with spins already used gets that budget back on the next Get, until the
// budget's reset boundary.
type Registry struct {
	mu      sync.Mutex // serializes get-or-create
	lru     *expirable.LRU[string, *session.Session]
	factory Factory

	carryMu sync.Mutex
	carried map[string]domain.Budget
}

// New creates a registry holding at most size sessions, each dropped ttl after its last creation
func New(size int, ttl time.Duration, factory Factory) *Registry {
	r := &Registry{
		factory: factory,
		carried: make(map[string]domain.Budget),
	}
	r.lru = expirable.NewLRU[string, *session.Session](size, r.onEvict, ttl)
	return r
}

// onEvict runs under the cache lock, so it must not touch the cache
func (r *Registry) onEvict(userID string, s *session.Session) {
	s.Close()
	metrics.ActiveSessions.Dec()

	if b := s.Budget(); b.Remaining < b.Max {
		r.carryMu.Lock()
		r.carried[userID] = b
		r.carryMu.Unlock()
	}
	logger.Debug(LogMsgSessionEvicted, "user_id", userID, "session_id", s.ID())
}

func (r *Registry) takeCarried(userID string) (domain.Budget, bool) {
	r.carryMu.Lock()
	defer r.carryMu.Unlock()
	b, ok := r.carried[userID]
	delete(r.carried, userID)
	return b, ok
}

// Get returns the user's session, creating it on first use
func (r *Registry) Get(userID string) (*session.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.lru.Get(userID); ok {
		return s, nil
	}

	s, err := r.factory(userID)
	if err != nil {
		return nil, err
	}
	if b, ok := r.takeCarried(userID); ok {
		s.RestoreBudget(b)
		logger.Debug(LogMsgBudgetCarried, "user_id", userID, "remaining", b.Remaining, "reset_at", b.ResetAt)
	}
	r.lru.Add(userID, s)
	metrics.ActiveSessions.Inc()
	logger.Debug(LogMsgSessionCreated, "user_id", userID, "session_id", s.ID())
	return s, nil
}

// Peek returns the user's session without creating one
func (r *Registry) Peek(userID string) (*session.Session, bool) {
	return r.lru.Peek(userID)
}

// Remove closes and drops the user's session. Spins already used stay used.
func (r *Registry) Remove(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Remove(userID)
}

// ResetAll refills every live session's budget, forgets carried budgets and returns
// how many live sessions were reset
func (r *Registry) ResetAll() int {
	r.carryMu.Lock()
	clear(r.carried)
	r.carryMu.Unlock()

	sessions := r.lru.Values()
	for _, s := range sessions {
		s.Reset()
	}
	logger.Info(LogMsgBudgetsReset, "sessions", len(sessions))
	return len(sessions)
}

// Carried returns how many users have a budget waiting for their next session
func (r *Registry) Carried() int {
	r.carryMu.Lock()
	defer r.carryMu.Unlock()
	return len(r.carried)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return r.lru.Len()
}

// Purge closes and drops every session
func (r *Registry) Purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lru.Purge()
}
