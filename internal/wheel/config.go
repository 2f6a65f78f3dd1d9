package wheel

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/logger"
)

// Config is the on-disk wheel definition
type Config struct {
	Outcomes []domain.Outcome `yaml:"outcomes"`
	Reveal   RevealConfig     `yaml:"reveal"`
}

// RevealConfig lists the ceremony phases. Empty means DefaultRevealSteps.
type RevealConfig struct {
	Phases []domain.RevealStep `yaml:"phases"`
}

// ParseConfig decodes YAML. Unknown fields are rejected so typos surface at startup.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: parse wheel config: %v", domain.ErrInvalidConfiguration, err)
	}
	if len(cfg.Reveal.Phases) == 0 {
		cfg.Reveal.Phases = DefaultRevealSteps()
	}
	return &cfg, nil
}

// LoadConfig reads path. A missing file falls back to the built-in rewards; any other
// read or parse failure is returned.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn(LogMsgUsingDefaults, "path", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read wheel config %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	logger.Info(LogMsgConfigLoaded, "path", path, "outcomes", len(cfg.Outcomes), "phases", len(cfg.Reveal.Phases))
	return cfg, nil
}

// Table builds the validated table from the config
func (c *Config) Table() (*Table, error) {
	return NewTable(c.Outcomes)
}

// DefaultConfig is the built-in daily wheel
func DefaultConfig() *Config {
	return &Config{
		Outcomes: DefaultOutcomes(),
		Reveal:   RevealConfig{Phases: DefaultRevealSteps()},
	}
}

// DefaultOutcomes are the eight daily rewards; weights are percentages summing to 100.
func DefaultOutcomes() []domain.Outcome {
	return []domain.Outcome{
		{ID: "points_50", Label: "50 Points", Points: 50, Weight: 25, Rarity: domain.RarityCommon},
		{ID: "points_100", Label: "100 Points", Points: 100, Weight: 20, Rarity: domain.RarityCommon},
		{ID: "energy_badge", Label: "Energy Badge", Badge: "Energy Champion", Weight: 15, Rarity: domain.RarityRare},
		{ID: "points_200", Label: "200 Points", Points: 200, Weight: 10, Rarity: domain.RarityRare},
		{ID: "eco_booster", Label: "Eco Booster", Points: 150, Weight: 10, Rarity: domain.RarityRare},
		{ID: "mystery_badge", Label: "Mystery Badge", Badge: "Mystery Champion", Weight: 8, Rarity: domain.RarityEpic},
		{ID: "points_500", Label: "500 Points", Points: 500, Weight: 7, Rarity: domain.RarityEpic},
		{ID: "legend_badge", Label: "Legend Badge", Badge: "Eco Legend", Weight: 5, Rarity: domain.RarityLegendary},
	}
}

// DefaultRevealSteps: armed immediately, revealing after 500ms, settled at 1.5s
func DefaultRevealSteps() []domain.RevealStep {
	return []domain.RevealStep{
		{Phase: domain.PhaseArmed, Offset: 0},
		{Phase: domain.PhaseRevealing, Offset: 500 * time.Millisecond},
		{Phase: domain.PhaseSettled, Offset: 1500 * time.Millisecond},
	}
}
