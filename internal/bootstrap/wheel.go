package bootstrap

import (
	"fmt"

	"github.com/osse101/rewardwheel/internal/config"
	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/random"
	"github.com/osse101/rewardwheel/internal/registry"
	"github.com/osse101/rewardwheel/internal/reveal"
	"github.com/osse101/rewardwheel/internal/scheduler"
	"github.com/osse101/rewardwheel/internal/wheel"
	"github.com/osse101/rewardwheel/internal/worker"
)

// WheelComponents is the wired core: the table, its reveal phases, the per-user
// session registry and the worker that refills budgets at each reset boundary.
type WheelComponents struct {
	Table       *wheel.Table
	Steps       []domain.RevealStep
	Registry    *registry.Registry
	BudgetReset *worker.BudgetResetWorker
}

// InitializeWheel loads the wheel definition and builds the session registry on top of
// sched. The worker is returned unstarted.
func InitializeWheel(cfg *config.Config, bus event.Bus, sched scheduler.Scheduler, src random.Source) (*WheelComponents, error) {
	wheelCfg, err := wheel.LoadConfig(cfg.WheelConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadWheel, err)
	}

	table, err := wheelCfg.Table()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidWheel, err)
	}

	// Sessions build sequencers lazily, so bad phases would otherwise surface on first spin
	if err := reveal.ValidateSteps(wheelCfg.Reveal.Phases); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidRevealSteps, err)
	}

	if src == nil {
		src = random.NewCryptoSource()
	}

	loc := cfg.ResetLocation()
	reg := registry.New(cfg.SessionCacheSize, cfg.SessionTTL, registry.NewFactory(registry.FactoryConfig{
		Table:     table,
		Steps:     wheelCfg.Reveal.Phases,
		Scheduler: sched,
		Source:    src,
		Bus:       bus,
		MaxSpins:  cfg.SpinsPerDay,
		Location:  loc,
		Now:       scheduler.NowFunc(sched),
	}))

	logger.Info(LogMsgWheelInitialized,
		"outcomes", table.Len(),
		"phases", len(wheelCfg.Reveal.Phases),
		"spins_per_day", cfg.SpinsPerDay,
		"reset_location", loc.String())

	return &WheelComponents{
		Table:       table,
		Steps:       wheelCfg.Reveal.Phases,
		Registry:    reg,
		BudgetReset: worker.NewBudgetResetWorker(reg, bus, sched, loc),
	}, nil
}
