package wheel

import (
	"fmt"
	"math"

	"github.com/osse101/rewardwheel/internal/domain"
)

// Resolve maps a draw in [0,1) to an outcome: the first outcome whose cumulative
// boundary exceeds draw*total. Equal boundaries resolve to the earlier entry.
//
// The table is checked before the draw, so an unusable table reports
// ErrInvalidConfiguration for any draw.
func Resolve(table *Table, draw float64) (domain.Outcome, error) {
	if table == nil || len(table.outcomes) == 0 || len(table.bounds) != len(table.outcomes) || !(table.total > 0) {
		return domain.Outcome{}, fmt.Errorf("%w: table is empty or has no weight", domain.ErrInvalidConfiguration)
	}
	if math.IsNaN(draw) || draw < 0 || draw >= 1 {
		return domain.Outcome{}, fmt.Errorf("%w: draw %v outside [0,1)", domain.ErrInvalidArgument, draw)
	}

	target := draw * table.total

	lo, hi := 0, len(table.bounds)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if table.bounds[mid] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	// lo == last index also absorbs rounding at the top edge
	return table.outcomes[lo], nil
}
