package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	LogDir      string `env:"LOG_DIR" envDefault:"logs"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"reward-wheel"`
	Version     string `env:"VERSION" envDefault:"dev"`
	APIKey      string `env:"API_KEY"` // API key for authentication

	// Wheel
	WheelConfigPath    string        `env:"WHEEL_CONFIG_PATH" envDefault:"configs/wheel.yaml"`
	SpinsPerDay        int           `env:"SPINS_PER_DAY" envDefault:"3"`
	ResetTZOffsetHours int           `env:"RESET_TZ_OFFSET_HOURS" envDefault:"0"`
	SessionCacheSize   int           `env:"SESSION_CACHE_SIZE" envDefault:"10000"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// HTTP
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	TrustedProxies     []string      `env:"TRUSTED_PROXIES" envSeparator:","`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	DeadLetterPath string `env:"DEAD_LETTER_PATH" envDefault:"logs/dead_letter.jsonl"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that parse but cannot be served
func (c *Config) Validate() error {
	var errs []error

	// Validate API key is set
	if c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY environment variable must be set for security"))
	}
	if c.Port < MinPort || c.Port > MaxPort {
		errs = append(errs, fmt.Errorf("invalid PORT value %d: must be between %d and %d", c.Port, MinPort, MaxPort))
	}
	if c.SpinsPerDay < 1 {
		errs = append(errs, fmt.Errorf("invalid SPINS_PER_DAY value %d: must be at least 1", c.SpinsPerDay))
	}
	if c.ResetTZOffsetHours < MinTZOffsetHours || c.ResetTZOffsetHours > MaxTZOffsetHours {
		errs = append(errs, fmt.Errorf("invalid RESET_TZ_OFFSET_HOURS value %d: must be between %d and %d",
			c.ResetTZOffsetHours, MinTZOffsetHours, MaxTZOffsetHours))
	}
	if c.SessionCacheSize < 1 {
		errs = append(errs, fmt.Errorf("invalid SESSION_CACHE_SIZE value %d: must be at least 1", c.SessionCacheSize))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid SESSION_TTL value %s: must be positive", c.SessionTTL))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_TIMEOUT value %s: must be positive", c.ShutdownTimeout))
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatJSON, LogFormatText:
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT value %q: must be %s or %s", c.LogFormat, LogFormatJSON, LogFormatText))
	}

	return errors.Join(errs...)
}

// ResetLocation is the fixed zone whose midnight refills spin budgets
func (c *Config) ResetLocation() *time.Location {
	if c.ResetTZOffsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.ResetTZOffsetHours), c.ResetTZOffsetHours*60*60)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
