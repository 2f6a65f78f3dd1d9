package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/random"
	"github.com/osse101/rewardwheel/internal/scheduler"
	"github.com/osse101/rewardwheel/internal/wheel"
)

var start = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

func newTestRegistry(t *testing.T, size int, ttl time.Duration) (*Registry, *scheduler.Manual) {
	t.Helper()
	table, err := wheel.NewTable(wheel.DefaultOutcomes())
	require.NoError(t, err)

	sched := scheduler.NewManual(start)
	factory := NewFactory(FactoryConfig{
		Table:     table,
		Steps:     wheel.DefaultRevealSteps(),
		Scheduler: sched,
		Source:    random.NewSequence(0.5),
		MaxSpins:  2,
		Now:       func() time.Time { return start },
	})
	return New(size, ttl, factory), sched
}

func TestRegistry_GetCreatesOncePerUser(t *testing.T) {
	reg, _ := newTestRegistry(t, 10, time.Hour)

	a1, err := reg.Get("alice")
	require.NoError(t, err)
	a2, err := reg.Get("alice")
	require.NoError(t, err)
	b, err := reg.Get("bob")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotEqual(t, a1.ID(), b.ID())
	assert.Equal(t, 2, reg.Len())

	peeked, ok := reg.Peek("bob")
	assert.True(t, ok)
	assert.Same(t, b, peeked)

	_, ok = reg.Peek("carol")
	assert.False(t, ok)
	assert.Equal(t, 2, reg.Len(), "peek never creates")
}

func TestRegistry_RejectsEmptyUser(t *testing.T) {
	reg, _ := newTestRegistry(t, 10, time.Hour)
	_, err := reg.Get("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_EvictionClosesSession(t *testing.T) {
	reg, sched := newTestRegistry(t, 1, time.Hour)

	alice, err := reg.Get("alice")
	require.NoError(t, err)
	_, err = alice.Spin(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sched.Pending())

	_, err = reg.Get("bob")
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 0, sched.Pending(), "evicted session's reveal was cancelled")
	_, err = alice.Spin(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestRegistry_ResetAll(t *testing.T) {
	reg, _ := newTestRegistry(t, 10, time.Hour)

	for _, user := range []string{"alice", "bob"} {
		s, err := reg.Get(user)
		require.NoError(t, err)
		_, err = s.Spin(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, s.Budget().Remaining)
	}

	assert.Equal(t, 2, reg.ResetAll())

	for _, user := range []string{"alice", "bob"} {
		s, ok := reg.Peek(user)
		require.True(t, ok)
		assert.Equal(t, 2, s.Budget().Remaining)
	}
}

func TestRegistry_RemoveAndPurge(t *testing.T) {
	reg, _ := newTestRegistry(t, 10, time.Hour)

	alice, err := reg.Get("alice")
	require.NoError(t, err)
	_, err = reg.Get("bob")
	require.NoError(t, err)

	assert.True(t, reg.Remove("alice"))
	assert.False(t, reg.Remove("alice"))
	_, err = alice.Spin(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	reg.Purge()
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_RemoveKeepsSpentBudget(t *testing.T) {
	reg, _ := newTestRegistry(t, 10, time.Hour)

	kid, err := reg.Get("kid")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = kid.Spin(context.Background())
		require.NoError(t, err)
	}
	_, err = kid.Spin(context.Background())
	require.ErrorIs(t, err, domain.ErrBudgetExhausted)

	require.True(t, reg.Remove("kid"))
	assert.Equal(t, 1, reg.Carried())

	again, err := reg.Get("kid")
	require.NoError(t, err)
	assert.NotEqual(t, kid.ID(), again.ID())
	assert.Equal(t, 0, again.Budget().Remaining)
	assert.Equal(t, 2, again.Budget().Max)
	_, err = again.Spin(context.Background())
	assert.ErrorIs(t, err, domain.ErrBudgetExhausted)
	assert.Equal(t, 0, reg.Carried(), "carried budget is consumed by the new session")
}

func TestRegistry_CapacityEvictionKeepsSpentBudget(t *testing.T) {
	reg, _ := newTestRegistry(t, 2, time.Hour)

	alice, err := reg.Get("alice")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = alice.Spin(context.Background())
		require.NoError(t, err)
	}

	for _, user := range []string{"u1", "u2", "u3"} {
		_, err = reg.Get(user)
		require.NoError(t, err)
	}
	_, ok := reg.Peek("alice")
	require.False(t, ok, "alice was pushed out")

	back, err := reg.Get("alice")
	require.NoError(t, err)
	_, err = back.Spin(context.Background())
	assert.ErrorIs(t, err, domain.ErrBudgetExhausted)
}

func TestRegistry_UntouchedBudgetIsNotCarried(t *testing.T) {
	reg, _ := newTestRegistry(t, 10, time.Hour)

	_, err := reg.Get("alice")
	require.NoError(t, err)
	require.True(t, reg.Remove("alice"))
	assert.Equal(t, 0, reg.Carried())
}

func TestRegistry_ResetAllDropsCarriedBudgets(t *testing.T) {
	reg, _ := newTestRegistry(t, 10, time.Hour)

	alice, err := reg.Get("alice")
	require.NoError(t, err)
	_, err = alice.Spin(context.Background())
	require.NoError(t, err)
	require.True(t, reg.Remove("alice"))
	require.Equal(t, 1, reg.Carried())

	reg.ResetAll()
	assert.Equal(t, 0, reg.Carried())

	back, err := reg.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, back.Budget().Remaining)
}

func TestRegistry_FactoryErrorIsReturned(t *testing.T) {
	factory := NewFactory(FactoryConfig{Steps: nil, Scheduler: scheduler.NewManual(start), MaxSpins: 1})
	reg := New(10, time.Hour, factory)

	_, err := reg.Get("alice")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.Equal(t, 0, reg.Len())
}
