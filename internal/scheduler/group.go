package scheduler

import (
	"sync"

	"github.com/google/uuid"
)

// Group tracks outstanding handles so they can be cancelled together.
// The zero value is ready to use.
type Group struct {
	mu      sync.Mutex
	handles map[uuid.UUID]Handle
}

// Track registers h and returns the key used to Forget it
func (g *Group) Track(h Handle) uuid.UUID {
	id := uuid.New()
	g.TrackAs(id, h)
	return id
}

// TrackAs registers h under a key chosen before h was scheduled, so the
// callback can carry its own key
func (g *Group) TrackAs(id uuid.UUID, h Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.handles == nil {
		g.handles = make(map[uuid.UUID]Handle)
	}
	g.handles[id] = h
}

// Forget drops a handle without cancelling it, typically once it has fired
func (g *Group) Forget(id uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.handles, id)
}

// CancelAll cancels every tracked handle and returns how many were still pending
func (g *Group) CancelAll() int {
	g.mu.Lock()
	handles := g.handles
	g.handles = nil
	g.mu.Unlock()

	cancelled := 0
	for _, h := range handles {
		if h.Cancel() {
			cancelled++
		}
	}
	return cancelled
}

// Len returns the number of tracked handles
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handles)
}
