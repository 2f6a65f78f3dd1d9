// Package wheel holds the weighted reward table and the outcome resolver.
package wheel

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/rewardwheel/internal/domain"
)

// Table is an immutable, ordered set of outcomes. Built once at startup and shared
// read-only, so it needs no locking.
type Table struct {
	outcomes []domain.Outcome
	bounds   []float64 // cumulative weight up to and including outcome i
	total    float64
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(TagRarity, func(fl validator.FieldLevel) bool {
		return domain.Rarity(fl.Field().String()).Valid()
	})
	return v
}

// NewTable validates the records and precomputes cumulative boundaries in table order.
func NewTable(outcomes []domain.Outcome) (*Table, error) {
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("%w: table has no outcomes", domain.ErrInvalidConfiguration)
	}

	t := &Table{
		outcomes: make([]domain.Outcome, len(outcomes)),
		bounds:   make([]float64, len(outcomes)),
	}
	seen := make(map[string]bool, len(outcomes))

	for i, o := range outcomes {
		if err := validate.Struct(o); err != nil {
			return nil, fmt.Errorf("%w: outcome %d (%q): %s", domain.ErrInvalidConfiguration, i, o.ID, describe(err))
		}
		if math.IsInf(o.Weight, 0) {
			return nil, fmt.Errorf("%w: outcome %q has non-finite weight", domain.ErrInvalidConfiguration, o.ID)
		}
		if seen[o.ID] {
			return nil, fmt.Errorf("%w: duplicate outcome id %q", domain.ErrInvalidConfiguration, o.ID)
		}
		seen[o.ID] = true

		t.total += o.Weight
		t.outcomes[i] = o
		t.bounds[i] = t.total
	}

	if !(t.total > 0) || math.IsInf(t.total, 0) {
		return nil, fmt.Errorf("%w: total weight must be positive and finite", domain.ErrInvalidConfiguration)
	}

	return t, nil
}

// describe flattens validator errors into "field:tag" pairs
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		parts = append(parts, strings.ToLower(e.Field())+" failed "+e.Tag())
	}
	return strings.Join(parts, ", ")
}

// Outcomes returns a copy of the outcomes in table order
func (t *Table) Outcomes() []domain.Outcome {
	if t == nil {
		return nil
	}
	return append([]domain.Outcome(nil), t.outcomes...)
}

// Len returns the number of outcomes
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.outcomes)
}

// TotalWeight returns the sum of all weights
func (t *Table) TotalWeight() float64 {
	if t == nil {
		return 0
	}
	return t.total
}

// Probability returns weight/total for the outcome with the given id
func (t *Table) Probability(id string) (float64, bool) {
	if t == nil || t.total <= 0 {
		return 0, false
	}
	for _, o := range t.outcomes {
		if o.ID == id {
			return o.Weight / t.total, true
		}
	}
	return 0, false
}

// Resolve is shorthand for Resolve(t, draw)
func (t *Table) Resolve(draw float64) (domain.Outcome, error) {
	return Resolve(t, draw)
}
