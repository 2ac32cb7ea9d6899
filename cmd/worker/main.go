package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/pickem-league/internal/app"
	"github.com/riskibarqy/pickem-league/internal/config"
	"github.com/riskibarqy/pickem-league/internal/observability"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "component", "worker")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopProfiler, err := observability.InitPyroscope(cfg, "worker", logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	scheduler, err := app.NewScheduler(cfg, application.Jobs, logger.Named("cron"))
	if err != nil {
		logger.Error("build scheduler", "error", err)
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("worker started",
		"timezone", cfg.SchedulerTimezone,
		"sync_cron", cfg.SchedulerSyncCron,
		"sweep_cron", cfg.SchedulerSweepCron,
		"dispatch_cron", cfg.SchedulerDispatchCron,
		"standings_cron", cfg.SchedulerStandingsCron,
	)

	<-ctx.Done()
	logger.Info("worker stopping")

	// Stop returns a context that is done once running jobs have finished.
	select {
	case <-scheduler.Stop().Done():
	case <-time.After(shutdownTimeout):
		logger.Warn("scheduled jobs still running at shutdown", "timeout", shutdownTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Close(); err != nil {
		logger.Warn("close app", "error", err)
	}
	if err := stopProfiler(); err != nil {
		logger.Warn("stop pyroscope", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
	logger.Info("worker stopped")
}
