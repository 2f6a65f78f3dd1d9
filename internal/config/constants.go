package config

const (
	// Configuration file paths
	ConfigPathWheel = "configs/wheel.yaml"

	// DefaultDeadLetterPath is where undeliverable events are appended
	DefaultDeadLetterPath = "logs/dead_letter.jsonl"
)

// Bounds checked by Validate
const (
	MinPort          = 1
	MaxPort          = 65535
	MinTZOffsetHours = -12
	MaxTZOffsetHours = 14
)

// Log formats accepted by LOG_FORMAT
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)
