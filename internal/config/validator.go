package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars lists all environment variables that must be set
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"API_KEY",
}

// Thresholds behind the startup warnings
const (
	exampleAPIKey   = "generate_with_openssl_rand_hex_32"
	highSpinsPerDay = 24
	minSessionTTL   = time.Minute
)

// ValidateEnv checks the .env schema version and that every required variable is set
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	switch {
	case schemaVersion == "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	case schemaVersion != ExpectedEnvSchemaVersion:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	missing := slices.DeleteFunc(slices.Clone(RequiredEnvVars), func(name string) bool {
		return os.Getenv(name) != ""
	})
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and then lists settings that load fine
// but are probably not what the operator wants
func ValidateEnvWithWarnings(cfg *Config) ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}
	return cfg.Warnings(), nil
}

// Warnings reports risky but valid settings
func (c *Config) Warnings() []string {
	var warnings []string

	if c.APIKey == exampleAPIKey {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}

	if c.Environment == "production" && (len(c.CORSAllowedOrigins) == 0 || slices.Contains(c.CORSAllowedOrigins, "*")) {
		warnings = append(warnings, "CORS_ALLOWED_ORIGINS allows any origin in production - list the presentation hosts explicitly")
	}

	if _, err := os.Stat(c.WheelConfigPath); errors.Is(err, fs.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf("WHEEL_CONFIG_PATH %s does not exist - the built-in rewards will be used", c.WheelConfigPath))
	}

	if c.SpinsPerDay > highSpinsPerDay {
		warnings = append(warnings, fmt.Sprintf("SPINS_PER_DAY is %d - the daily budget barely limits spinning", c.SpinsPerDay))
	}

	// expiry tears down a reveal in progress
	if c.SessionTTL < minSessionTTL {
		warnings = append(warnings, fmt.Sprintf("SESSION_TTL %s is under a minute - sessions can expire before their reveal settles", c.SessionTTL))
	}

	return warnings
}
