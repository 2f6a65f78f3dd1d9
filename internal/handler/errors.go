package handler

// Client-facing error text. Internal error details never reach the response body.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidRequestFormat  = "Invalid request format"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgSessionNotFound       = "No session for that user"
)

const MsgSessionClosed = "Session closed"

// Log messages
const (
	LogMsgSessionClosed = "Session closed by request"
)

// Operation names used in logs
const (
	OpSpin         = "Spin"
	OpResetBudget  = "Reset budget"
	OpGetSession   = "Get session"
	OpCloseSession = "Close session"
)

// Request field names
const (
	FieldUserID   = "user_id"
	userIDVarTags = "max=100," + userIDTag
)
