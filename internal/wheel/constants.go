package wheel

// Default configuration file location
const ConfigPathWheel = "configs/wheel.yaml"

// Validation tag registered for domain.Rarity
const TagRarity = "rarity"

// Log messages
const (
	LogMsgConfigLoaded  = "Wheel configuration loaded"
	LogMsgUsingDefaults = "Wheel configuration file not found, using built-in rewards"
)
