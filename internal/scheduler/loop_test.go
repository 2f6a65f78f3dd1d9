package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/rewardwheel/internal/testing/leaktest"
)

func TestLoop_RunsInDueOrder(t *testing.T) {
	loop := NewLoop()
	defer loop.Stop()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	record := func(name string) func() {
		return func() {
			mu.Lock()
			got = append(got, name)
			n := len(got)
			mu.Unlock()
			if n == 3 {
				close(done)
			}
		}
	}

	loop.After(60*time.Millisecond, record("third"))
	loop.After(0, record("first"))
	loop.After(30*time.Millisecond, record("second"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for callbacks")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second", "third"}, got)
	assert.Equal(t, 0, loop.Pending())
}

func TestLoop_CancelBeforeFire(t *testing.T) {
	loop := NewLoop()
	defer loop.Stop()

	fired := make(chan struct{}, 1)
	h := loop.After(50*time.Millisecond, func() { fired <- struct{}{} })

	assert.Equal(t, 1, loop.Pending())
	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel(), "second cancel reports nothing pending")
	assert.Equal(t, 0, loop.Pending())

	select {
	case <-fired:
		t.Fatal("cancelled callback ran")
	case <-time.After(120 * time.Millisecond):
	}
}

func TestLoop_CancelAfterRun(t *testing.T) {
	loop := NewLoop()
	defer loop.Stop()

	ran := make(chan struct{})
	h := loop.After(0, func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
	assert.False(t, h.Cancel())
}

func TestLoop_CallbacksDoNotOverlap(t *testing.T) {
	loop := NewLoop()
	defer loop.Stop()

	var mu sync.Mutex
	active, maxActive := 0, 0
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		loop.After(time.Millisecond, func() {
			defer wg.Done()
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		})
	}

	wg.Wait()
	assert.Equal(t, 1, maxActive)
}

func TestLoop_CallbackCanReschedule(t *testing.T) {
	loop := NewLoop()
	defer loop.Stop()

	done := make(chan struct{})
	loop.After(0, func() {
		loop.After(0, func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested callback never ran")
	}
}

func TestLoop_PanicDoesNotKillLoop(t *testing.T) {
	loop := NewLoop()
	defer loop.Stop()

	done := make(chan struct{})
	loop.After(0, func() { panic("boom") })
	loop.After(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop stopped after panic")
	}
}

func TestLoop_StopCancelsPending(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	loop := NewLoop()
	fired := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		loop.After(50*time.Millisecond, func() { fired <- struct{}{} })
	}
	loop.Stop()
	loop.Stop()

	assert.Equal(t, 0, loop.Pending())

	h := loop.After(0, func() { fired <- struct{}{} })
	assert.False(t, h.Cancel())

	time.Sleep(100 * time.Millisecond)
	require.Empty(t, fired)

	checker.Check(0)
}
