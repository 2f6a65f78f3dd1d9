package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Wheel metric names
const (
	MetricNameSpinsTotal          = "wheel_spins_total"
	MetricNameSpinsRejected       = "wheel_spins_rejected_total"
	MetricNameRevealTransitions   = "reveal_transitions_total"
	MetricNameRevealCancellations = "reveal_cancellations_total"
	MetricNameActiveSessions      = "wheel_active_sessions"
	MetricNameBudgetResets        = "wheel_budget_resets_total"
	MetricNameSSEClients          = "sse_clients_connected"
	MetricNameSSEEventsDropped    = "sse_events_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Wheel metric help text
const (
	HelpTextSpinsTotal          = "Total number of resolved spins by outcome rarity"
	HelpTextSpinsRejected       = "Total number of spins refused because the daily budget was exhausted"
	HelpTextRevealTransitions   = "Total number of reveal phase transitions"
	HelpTextRevealCancellations = "Total number of reveal ceremonies interrupted before settling"
	HelpTextActiveSessions      = "Number of spin sessions currently held in memory"
	HelpTextBudgetResets        = "Total number of daily budget refills"
	HelpTextSSEClients          = "Number of connected event stream clients"
	HelpTextSSEEventsDropped    = "Total number of stream events dropped because a buffer was full"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelRarity = "rarity"
	LabelPhase  = "phase"
)

// PathUnmatched labels requests that matched no route, keeping path cardinality bounded
const PathUnmatched = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Unexpected event payload"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
