// Package sse streams wheel events to connected browsers over Server-Sent Events.
package sse

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/metrics"
)

// ErrHubStopped is returned by Check once Stop has run
var ErrHubStopped = errors.New("sse hub stopped")

// Event is one frame on the stream. ID is a decimal sequence number that
// browsers echo back in Last-Event-ID when they reconnect.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`

	seq uint64
}

// ClientOptions narrows what a client receives
type ClientOptions struct {
	Types       []string // empty receives every type
	UserID      string   // empty receives every user's events
	LastEventID uint64   // events after this sequence are replayed on connect
}

// Client is one connected stream
type Client struct {
	ID           string
	EventChannel chan Event
	UserID       string

	types       map[string]bool
	lastEventID uint64
}

func newClient(opts ClientOptions) *Client {
	c := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Event, ClientEventBuffer),
		UserID:       opts.UserID,
		lastEventID:  opts.LastEventID,
	}
	for _, t := range opts.Types {
		if t = strings.TrimSpace(t); t == "" {
			continue
		}
		if c.types == nil {
			c.types = make(map[string]bool)
		}
		c.types[t] = true
	}
	return c
}

func (c *Client) wants(evt Event) bool {
	if c.types != nil && !c.types[evt.Type] {
		return false
	}
	// user-scoped events only reach that user; broadcast events (no user) reach everyone
	return c.UserID == "" || evt.UserID == "" || evt.UserID == c.UserID
}

// offer never blocks; a full buffer drops the event for this client only
func (c *Client) offer(evt Event) {
	select {
	case c.EventChannel <- evt:
	default:
		metrics.SSEEventsDropped.Inc()
	}
}

// Hub fans events out to clients. All client bookkeeping happens on the run
// goroutine; the mutex only guards reads from ClientCount and Stop.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	// history is keyed by user id ("" for events addressed to everyone)
	history *lru.Cache[string, []Event]
	seq     atomic.Uint64

	events    chan Event
	joins     chan *Client
	leaves    chan string
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewHub creates a hub; call Start before registering clients
func NewHub() *Hub {
	history, err := lru.New[string, []Event](HistoryUsers)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &Hub{
		clients: make(map[string]*Client),
		history: history,
		events:  make(chan Event, BroadcastBufferSize),
		joins:   make(chan *Client, ClientChannelBuffer),
		leaves:  make(chan string, ClientChannelBuffer),
		done:    make(chan struct{}),
	}
}

// Start launches the fan-out loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.loop()
}

// Stop ends the loop and closes every client channel. Safe to call more than once.
func (h *Hub) Stop() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		h.mu.Lock()
		defer h.mu.Unlock()
		for id, c := range h.clients {
			close(c.EventChannel)
			delete(h.clients, id)
			metrics.SSEClients.Dec()
		}
	})
}

func (h *Hub) loop() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case c := <-h.joins:
			h.join(c)
		case id := <-h.leaves:
			h.leave(id)
		case evt := <-h.events:
			h.remember(evt)
			h.mu.RLock()
			for _, c := range h.clients {
				if c.wants(evt) {
					c.offer(evt)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	metrics.SSEClients.Inc()

	if c.lastEventID > 0 {
		for _, evt := range h.missed(c) {
			c.offer(evt)
		}
	}
}

func (h *Hub) leave(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	close(c.EventChannel)
	delete(h.clients, id)
	metrics.SSEClients.Dec()
}

func (h *Hub) remember(evt Event) {
	kept, _ := h.history.Get(evt.UserID)
	kept = append(kept, evt)
	if over := len(kept) - HistoryPerUser; over > 0 {
		kept = slices.Clone(kept[over:])
	}
	h.history.Add(evt.UserID, kept)
}

// missed returns remembered events newer than the client's cursor, oldest first
func (h *Hub) missed(c *Client) []Event {
	keys := []string{""}
	if c.UserID == "" {
		keys = h.history.Keys()
	} else {
		keys = append(keys, c.UserID)
	}

	var out []Event
	for _, key := range keys {
		kept, ok := h.history.Peek(key)
		if !ok {
			continue
		}
		for _, evt := range kept {
			if evt.seq > c.lastEventID && c.wants(evt) {
				out = append(out, evt)
			}
		}
	}
	slices.SortFunc(out, func(a, b Event) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return out
}

// Register adds a client. After Stop it returns a client whose channel is already closed.
func (h *Hub) Register(opts ClientOptions) *Client {
	c := newClient(opts)
	// checked first: select picks randomly once joins has buffer room
	select {
	case <-h.done:
		close(c.EventChannel)
		return c
	default:
	}
	select {
	case h.joins <- c:
	case <-h.done:
		close(c.EventChannel)
	}
	return c
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	select {
	case h.leaves <- clientID:
	case <-h.done:
	}
}

// Broadcast stamps the next sequence number and queues the event. A full
// queue drops it.
func (h *Hub) Broadcast(eventType, userID string, payload interface{}) {
	seq := h.seq.Add(1)
	evt := Event{
		ID:        strconv.FormatUint(seq, 10),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
		seq:       seq,
	}

	select {
	case h.events <- evt:
	default:
		metrics.SSEEventsDropped.Inc()
		logger.Warn(LogMsgBroadcastDropped, "event_type", eventType, "seq", seq)
	}
}

// Check is a readiness probe for the fan-out loop
func (h *Hub) Check(context.Context) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
		return nil
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders one frame: optional "id:", then "event:" and a JSON "data:" line
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if evt.ID != "" {
		b.WriteString("id: ")
		b.WriteString(evt.ID)
		b.WriteByte('\n')
	}
	b.WriteString("event: ")
	b.WriteString(evt.Type)
	b.WriteString("\ndata: ")
	b.Write(data)
	b.WriteString("\n\n")
	return []byte(b.String()), nil
}
