package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// Replay history kept for reconnecting clients
const (
	HistoryUsers   = 1024
	HistoryPerUser = 32
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Stream-only event types; wheel events keep their bus names
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Request inputs read by Handler
const (
	QueryParamTypes   = "types"
	QueryParamUserID  = "user_id"
	HeaderLastEventID = "Last-Event-ID"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgBroadcastDropped   = "SSE broadcast buffer full, event dropped"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgBadLastEventID     = "Ignoring malformed Last-Event-ID"
	LogMsgSubscriberReady    = "SSE subscriber registered for event types"
)
