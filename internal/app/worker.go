package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/pickem-league/internal/config"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

// PipelineJobs is the subset of the job service driven by the worker clock.
type PipelineJobs interface {
	SyncCurrentWeeks(ctx context.Context, trigger string) (usecase.SyncCurrentResult, error)
	SweepReminders(ctx context.Context, trigger string) (usecase.SweepResult, error)
	DispatchNotifications(ctx context.Context, trigger string) (usecase.DispatchResult, error)
	RecalculateCurrentStandings(ctx context.Context, trigger string) ([]usecase.RecalculateResult, error)
}

type scheduledJob struct {
	name string
	spec string
	run  func(ctx context.Context) error
}

// NewScheduler registers the pipeline jobs on a cron clock in the configured
// timezone. Overlapping runs of the same job are skipped and each tick runs
// under its own timeout.
func NewScheduler(cfg config.Config, jobs PipelineJobs, logger *logging.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = logging.Default()
	}
	location, err := time.LoadLocation(cfg.SchedulerTimezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}

	c := cron.New(
		cron.WithLocation(location),
		cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
	)

	for _, job := range pipelineSchedule(cfg, jobs) {
		if _, err := c.AddFunc(job.spec, func() {
			runScheduledJob(logger, cfg.SchedulerJobTimeout, job)
		}); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", job.name, job.spec, err)
		}
	}
	return c, nil
}

func pipelineSchedule(cfg config.Config, jobs PipelineJobs) []scheduledJob {
	return []scheduledJob{
		{
			name: "sync-current",
			spec: cfg.SchedulerSyncCron,
			run: func(ctx context.Context) error {
				_, err := jobs.SyncCurrentWeeks(ctx, usecase.TriggerCron)
				return err
			},
		},
		{
			name: "sweep-reminders",
			spec: cfg.SchedulerSweepCron,
			run: func(ctx context.Context) error {
				_, err := jobs.SweepReminders(ctx, usecase.TriggerCron)
				return err
			},
		},
		{
			name: "dispatch-notifications",
			spec: cfg.SchedulerDispatchCron,
			run: func(ctx context.Context) error {
				_, err := jobs.DispatchNotifications(ctx, usecase.TriggerCron)
				return err
			},
		},
		{
			name: "calculate-standings",
			spec: cfg.SchedulerStandingsCron,
			run: func(ctx context.Context) error {
				_, err := jobs.RecalculateCurrentStandings(ctx, usecase.TriggerCron)
				return err
			},
		},
	}
}

func runScheduledJob(logger *logging.Logger, timeout time.Duration, job scheduledJob) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	started := time.Now()
	if err := job.run(ctx); err != nil {
		logger.ErrorContext(ctx, "scheduled job failed", "job", job.name, "duration", time.Since(started), "error", err)
		return
	}
	logger.InfoContext(ctx, "scheduled job finished", "job", job.name, "duration", time.Since(started))
}

// cronLogger adapts the zap-backed logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
