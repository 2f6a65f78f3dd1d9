package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rarity is the tier of a wheel outcome
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// Rarities lists every tier from most to least frequent
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// ParseRarity accepts any casing ("legendary", "EPIC") and returns the canonical tier
func ParseRarity(s string) (Rarity, error) {
	// Casers are stateful, so one per call
	r := Rarity(cases.Title(language.English).String(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown rarity %q", ErrInvalidConfiguration, s)
	}
	return r, nil
}

// Valid reports whether r is one of the four tiers
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// UnmarshalText normalizes casing when decoding from JSON or YAML
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Outcome is one prize on the wheel
type Outcome struct {
	ID     string  `json:"id" yaml:"id" validate:"required"`
	Label  string  `json:"label" yaml:"label" validate:"required"`
	Points int     `json:"points,omitempty" yaml:"points" validate:"gte=0"`
	Badge  string  `json:"badge,omitempty" yaml:"badge"`
	Weight float64 `json:"weight" yaml:"weight" validate:"gt=0"`
	Rarity Rarity  `json:"rarity" yaml:"rarity" validate:"required,rarity"`
}

// Phase is the lifecycle position of one reveal ceremony
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
	PhaseRevealing
	PhaseSettled
)

var phaseNames = map[Phase]string{
	PhaseIdle:      "idle",
	PhaseArmed:     "armed",
	PhaseRevealing: "revealing",
	PhaseSettled:   "settled",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ParsePhase is the inverse of Phase.String
func ParsePhase(s string) (Phase, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for p, name := range phaseNames {
		if name == key {
			return p, nil
		}
	}
	return PhaseIdle, fmt.Errorf("%w: unknown phase %q", ErrInvalidConfiguration, s)
}

// MarshalText renders the phase name in JSON payloads
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PhaseChange is a single transition notification. OffsetMs is measured from the trigger.
type PhaseChange struct {
	Phase      Phase     `json:"phase"`
	OffsetMs   int64     `json:"offset_ms"`
	Generation uint64    `json:"generation"`
	At         time.Time `json:"at"`
}

// RevealStep schedules one phase at an offset from the trigger
type RevealStep struct {
	Phase  Phase         `json:"phase" yaml:"phase"`
	Offset time.Duration `json:"offset" yaml:"offset"`
}

// Budget is the daily spin allowance of one session
type Budget struct {
	Remaining int       `json:"remaining"`
	Max       int       `json:"max"`
	ResetAt   time.Time `json:"reset_at"`
}
