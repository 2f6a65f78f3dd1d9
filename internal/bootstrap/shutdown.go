package bootstrap

import (
	"context"

	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/registry"
	"github.com/osse101/rewardwheel/internal/scheduler"
	"github.com/osse101/rewardwheel/internal/server"
	"github.com/osse101/rewardwheel/internal/sse"
	"github.com/osse101/rewardwheel/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	BudgetResetWorker  *worker.BudgetResetWorker
	Registry           *registry.Registry
	Loop               *scheduler.Loop
	Hub                *sse.Hub
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in order:
// 1. HTTP server (stop accepting new requests)
// 2. Budget reset worker (cancel the pending boundary timer)
// 3. Sessions (cancel in-flight reveals), then the scheduler loop
// 4. SSE hub (close client streams)
// 5. Event publisher (flush pending events)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	logger.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			logger.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.BudgetResetWorker != nil {
		if err := components.BudgetResetWorker.Shutdown(ctx); err != nil {
			logger.Error(LogMsgBudgetWorkerFailed, "error", err)
		}
	}

	if components.Registry != nil {
		n := components.Registry.Len()
		components.Registry.Purge()
		logger.Info(LogMsgSessionsClosed, "sessions", n)
	}

	if components.Loop != nil {
		components.Loop.Stop()
	}

	if components.Hub != nil {
		components.Hub.Stop()
	}

	if components.ResilientPublisher != nil {
		logger.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			logger.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	logger.Info(LogMsgServerStopped)
}
