package sse

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/rewardwheel/internal/logger"
)

// Handler returns an HTTP handler for SSE connections.
// Query: types=a,b limits event types; user_id=u limits user-scoped events to one user.
// A Last-Event-ID header replays remembered events the client missed.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ctx := r.Context()
		log := logger.FromContext(ctx)

		opts := clientOptions(r)
		if raw := r.Header.Get(HeaderLastEventID); raw != "" && opts.LastEventID == 0 {
			log.Debug(LogMsgBadLastEventID, "value", raw)
		}
		eventTypes, userID := opts.Types, opts.UserID

		client := hub.Register(opts)
		log.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"filters", eventTypes,
			"user_id", userID,
			"last_event_id", opts.LastEventID)

		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		connectEvent := Event{
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload: ConnectedPayload{
				ClientID: client.ID,
				Filters:  eventTypes,
				UserID:   userID,
			},
		}
		if !write(w, flusher, connectEvent) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-client.EventChannel:
				if !ok {
					// hub is shutting down
					return
				}
				if !write(w, flusher, event) {
					return
				}

			case <-ticker.C:
				if !write(w, flusher, Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}

// write reports false once the connection is unusable
func write(w http.ResponseWriter, flusher http.Flusher, event Event) bool {
	msg, err := FormatSSEMessage(event)
	if err != nil {
		logger.Error(LogMsgWriteError, "event_type", event.Type, "error", err)
		return true
	}
	if _, err := w.Write(msg); err != nil {
		logger.Warn(LogMsgWriteError, "event_type", event.Type, "error", err)
		return false
	}
	flusher.Flush()
	return true
}

func clientOptions(r *http.Request) ClientOptions {
	var opts ClientOptions
	if types := r.URL.Query().Get(QueryParamTypes); types != "" {
		opts.Types = strings.Split(types, ",")
	}
	opts.UserID = r.URL.Query().Get(QueryParamUserID)
	if last, err := strconv.ParseUint(strings.TrimSpace(r.Header.Get(HeaderLastEventID)), 10, 64); err == nil {
		opts.LastEventID = last
	}
	return opts
}
