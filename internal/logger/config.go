package logger

import (
	"log/slog"
	"slices"
	"strings"
)

// Config describes the process logger. The zero value logs text at info level.
type Config struct {
	Level       string // debug, info, warn, error; slog offsets such as "debug+2" also parse
	Format      string // json or text
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

// NewConfig creates a config from explicit values
func NewConfig(level, format, serviceName, version, environment string, addSource bool) Config {
	return Config{
		Level:       level,
		Format:      format,
		ServiceName: serviceName,
		Version:     version,
		Environment: environment,
		AddSource:   addSource,
	}
}

// ForEnvironment is NewConfig with source locations switched on for development environments
func ForEnvironment(level, format, serviceName, version, environment string) Config {
	return NewConfig(level, format, serviceName, version, environment, IsDevelopment(environment))
}

// IsDevelopment reports whether env names a local development environment
func IsDevelopment(env string) bool {
	return slices.Contains(developmentEnvironments, strings.ToLower(env))
}

// LogLevel parses Level, falling back to info on anything unrecognised
func (c Config) LogLevel() slog.Level {
	level := strings.ToLower(strings.TrimSpace(c.Level))
	if level == LogLevelWarning {
		level = LogLevelWarn
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// IsJSON returns true if format is JSON
func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

// BaseAttributes are attached to every record; empty values are left out
func (c Config) BaseAttributes() []slog.Attr {
	var attrs []slog.Attr
	for _, kv := range [][2]string{
		{AttrKeyService, c.ServiceName},
		{AttrKeyVersion, c.Version},
		{AttrKeyEnvironment, c.Environment},
	} {
		if kv[1] != "" {
			attrs = append(attrs, slog.String(kv[0], kv[1]))
		}
	}
	return attrs
}

// DefaultConfig is used by tests and tools that never load the app config
func DefaultConfig() Config {
	return Config{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		ServiceName: DefaultServiceName,
		Version:     DefaultVersion,
		Environment: EnvironmentDev,
	}
}
