package session

import (
	"fmt"
	"time"

	"github.com/osse101/rewardwheel/internal/domain"
)

// ErrBudgetExhausted is returned by Spin when no spins remain. It matches
// domain.ErrBudgetExhausted under errors.Is.
type ErrBudgetExhausted struct {
	ResetAt time.Time
}

func (e ErrBudgetExhausted) Error() string {
	return fmt.Sprintf(ErrFmtBudgetExhausted, domain.ErrMsgBudgetExhausted, e.ResetAt.Format(time.RFC3339))
}

// Is allows errors.Is() to match both this type and domain.ErrBudgetExhausted
func (e ErrBudgetExhausted) Is(target error) bool {
	if target == domain.ErrBudgetExhausted {
		return true
	}
	_, ok := target.(ErrBudgetExhausted)
	return ok
}
