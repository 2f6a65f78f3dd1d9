package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGroup_CancelAll(t *testing.T) {
	m := NewManual(epoch)
	var g Group

	ran := 0
	g.Track(m.After(time.Second, func() { ran++ }))
	g.Track(m.After(2*time.Second, func() { ran++ }))
	fired := g.Track(m.After(0, func() { ran++ }))

	m.Advance(0)
	assert.Equal(t, 1, ran)
	assert.Equal(t, 3, g.Len())

	g.Forget(fired)
	assert.Equal(t, 2, g.Len())

	assert.Equal(t, 2, g.CancelAll())
	assert.Equal(t, 0, g.Len())

	m.Advance(time.Minute)
	assert.Equal(t, 1, ran)
	assert.Equal(t, 0, g.CancelAll())
}

func TestGroup_CancelAllCountsOnlyPending(t *testing.T) {
	m := NewManual(epoch)
	var g Group

	g.Track(m.After(0, func() {}))
	g.Track(m.After(time.Second, func() {}))
	m.Advance(0)

	assert.Equal(t, 1, g.CancelAll())
}

func TestGroup_TrackAs(t *testing.T) {
	m := NewManual(epoch)
	var g Group

	id := uuid.New()
	g.TrackAs(id, m.After(time.Second, func() {}))
	assert.Equal(t, 1, g.Len())

	g.Forget(id)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 0, g.CancelAll())
}
