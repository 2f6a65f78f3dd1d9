package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/scheduler"
)

// MockResetter for testing
type MockResetter struct {
	mock.Mock
}

func (m *MockResetter) ResetAll() int {
	args := m.Called()
	return args.Int(0)
}

// MockBus for testing
type MockBus struct {
	mock.Mock
}

func (m *MockBus) Publish(ctx context.Context, e event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

var utc7 = time.FixedZone("UTC+7", 7*60*60)

func isResetAll(e event.Event) bool {
	return e.Type == event.BudgetResetAll
}

func TestBudgetResetWorker_FiresAtMidnight(t *testing.T) {
	// 22:00 local, two hours before the boundary
	clock := scheduler.NewManual(time.Date(2026, 2, 2, 22, 0, 0, 0, utc7))
	resetter := new(MockResetter)
	bus := new(MockBus)

	w := NewBudgetResetWorker(resetter, bus, clock, utc7)
	w.Start()
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, utc7), w.NextReset())

	// standby wake-up at 23:15 must not reset
	clock.Advance(75 * time.Minute)
	resetter.AssertNotCalled(t, "ResetAll")
	assert.Equal(t, 1, clock.Pending())

	resetter.On("ResetAll").Return(4).Once()
	bus.On("Publish", mock.Anything, mock.MatchedBy(isResetAll)).Return(nil).Once()

	clock.Advance(45 * time.Minute)
	resetter.AssertExpectations(t)
	bus.AssertExpectations(t)

	published := bus.Calls[0].Arguments.Get(1).(event.Event)
	payload := published.Payload.(domain.BudgetResetAllPayload)
	assert.Equal(t, 4, payload.SessionsAffected)

	// next day is scheduled again
	assert.Equal(t, 1, clock.Pending())
	assert.Equal(t, time.Date(2026, 2, 4, 0, 0, 0, 0, utc7), w.NextReset())

	require.NoError(t, w.Shutdown(context.Background()))
	assert.Equal(t, 0, clock.Pending())
}

func TestBudgetResetWorker_RunsEveryDay(t *testing.T) {
	clock := scheduler.NewManual(time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC))
	resetter := new(MockResetter)
	resetter.On("ResetAll").Return(0)

	w := NewBudgetResetWorker(resetter, nil, clock, nil)
	w.Start()

	clock.Advance(3 * 24 * time.Hour)
	resetter.AssertNumberOfCalls(t, "ResetAll", 3)

	require.NoError(t, w.Shutdown(context.Background()))
}

func TestBudgetResetWorker_EarlyTimerReschedules(t *testing.T) {
	clock := scheduler.NewManual(time.Date(2026, 2, 2, 23, 30, 0, 0, time.UTC))
	resetter := new(MockResetter)

	w := NewBudgetResetWorker(resetter, nil, clock, nil)

	// simulate a final-approach timer that fires a minute early
	clock.After(29*time.Minute, w.fire)
	clock.Advance(29 * time.Minute)
	resetter.AssertNotCalled(t, "ResetAll")
	assert.Equal(t, 1, clock.Pending(), "rescheduled for the remaining minute")

	resetter.On("ResetAll").Return(1).Once()
	clock.Advance(time.Minute)
	resetter.AssertExpectations(t)

	require.NoError(t, w.Shutdown(context.Background()))
}

func TestBudgetResetWorker_TriggerNow(t *testing.T) {
	clock := scheduler.NewManual(time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC))
	resetter := new(MockResetter)
	resetter.On("ResetAll").Return(7).Once()

	bus := event.NewMemoryBus()
	var mu sync.Mutex
	var received []domain.BudgetResetAllPayload
	bus.Subscribe(event.BudgetResetAll, func(_ context.Context, e event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e.Payload.(domain.BudgetResetAllPayload))
		return nil
	})

	w := NewBudgetResetWorker(resetter, bus, clock, nil)
	w.Start()

	assert.Equal(t, 7, w.TriggerNow(context.Background()))
	require.Len(t, received, 1)
	assert.Equal(t, 7, received[0].SessionsAffected)
	assert.Equal(t, 1, clock.Pending(), "manual trigger keeps the schedule")

	require.NoError(t, w.Shutdown(context.Background()))
	assert.Equal(t, 0, w.TriggerNow(context.Background()), "no resets after shutdown")
	resetter.AssertExpectations(t)
}

func TestBudgetResetWorker_ShutdownIdempotent(t *testing.T) {
	clock := scheduler.NewManual(time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC))
	w := NewBudgetResetWorker(new(MockResetter), nil, clock, nil)
	w.Start()

	require.NoError(t, w.Shutdown(context.Background()))
	require.NoError(t, w.Shutdown(context.Background()))

	// timers armed after shutdown are ignored
	w.Start()
	assert.Equal(t, 0, clock.Pending())
}

func TestBudgetResetWorker_ShutdownTimeout(t *testing.T) {
	clock := scheduler.NewManual(time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC))
	release := make(chan struct{})
	started := make(chan struct{})

	resetter := new(MockResetter)
	resetter.On("ResetAll").Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(0)

	w := NewBudgetResetWorker(resetter, nil, clock, nil)
	go w.TriggerNow(context.Background())
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, w.Shutdown(context.Background()))
}

func TestBudgetResetWorker_WithLoop(t *testing.T) {
	loop := scheduler.NewLoop()
	defer loop.Stop()

	w := NewBudgetResetWorker(new(MockResetter), nil, loop, time.UTC)
	w.Start()
	assert.Equal(t, 1, loop.Pending())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))
	assert.Equal(t, 0, loop.Pending())
}
