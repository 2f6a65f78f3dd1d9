// @title Reward Wheel API
// @version 1.0
// @description Daily reward wheel: weighted outcomes, spin budgets and staged reveals.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/osse101/rewardwheel/docs"
	"github.com/osse101/rewardwheel/internal/bootstrap"
	"github.com/osse101/rewardwheel/internal/config"
	"github.com/osse101/rewardwheel/internal/handler"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/scheduler"
	"github.com/osse101/rewardwheel/internal/server"
	"github.com/osse101/rewardwheel/internal/sse"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Reward wheel failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	warnings, err := config.ValidateEnvWithWarnings(cfg)
	if err != nil {
		return fmt.Errorf("environment validation failed: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	for _, w := range warnings {
		logger.Warn("Configuration warning", "warning", w)
	}

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	// Every reveal timer and the budget reset run on this loop
	loop := scheduler.NewLoop()

	wheelComponents, err := bootstrap.InitializeWheel(cfg, publisher, loop, nil)
	if err != nil {
		loop.Stop()
		_ = publisher.Shutdown(context.Background())
		return err
	}

	hub := sse.NewHub()
	hub.Start()

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: eventBus,
		Hub:      hub,
	}); err != nil {
		return err
	}

	wheelComponents.BudgetReset.Start()

	wheelHandler := handler.NewWheelHandler(wheelComponents.Table, wheelComponents.Steps, wheelComponents.Registry)
	srv := server.NewServer(server.Options{
		Addr:           cfg.Addr(),
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Wheel:          wheelHandler,
		Hub:            hub,
		Ready: []handler.ReadinessCheck{
			{Name: "wheel", Check: func(context.Context) error {
				_, err := wheelComponents.Table.Resolve(0)
				return err
			}},
			{Name: "events", Check: hub.Check},
		},
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-stop:
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		BudgetResetWorker:  wheelComponents.BudgetReset,
		Registry:           wheelComponents.Registry,
		Loop:               loop,
		Hub:                hub,
		ResilientPublisher: publisher,
	})
	return runErr
}
