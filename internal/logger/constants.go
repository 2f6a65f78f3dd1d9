package logger

// Context keys
const (
	ContextKeyRequestID = "request_id"
	ContextKeyUserID    = "user_id"
)

// Level and format names accepted in Config
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

const (
	DefaultServiceName = "reward-wheel"
	DefaultVersion     = "dev"
)

const (
	EnvironmentDev         = "dev"
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTest        = "test"
)

var developmentEnvironments = []string{EnvironmentDev, EnvironmentDevelopment}

// Attribute keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyUserID      = "user_id"
)
