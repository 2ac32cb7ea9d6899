package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/jobrun"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/platform/id"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

const (
	TriggerHTTP = "http"
	TriggerCron = "cron"
	TriggerUser = "user"
)

type CalculateStandingsJobInput struct {
	// LeagueID of zero recalculates every league with the sport active.
	LeagueID int64
	SportID  int64
	Season   string
	Week     int
}

type StandingsJobResult struct {
	League *CalculateResult   `json:"league,omitempty"`
	Sport  *RecalculateResult `json:"sport,omitempty"`
}

// JobService is the trigger surface. Every job run is journaled; the journal
// is best effort and never changes a job's outcome.
type JobService struct {
	reconciler *GameReconcilerService
	scheduler  *NotificationSchedulerService
	standings  *StandingsService
	dispatcher *NotificationDispatcherService
	runRepo    jobrun.Repository
	ids        id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewJobService(
	reconciler *GameReconcilerService,
	scheduler *NotificationSchedulerService,
	standings *StandingsService,
	dispatcher *NotificationDispatcherService,
	runRepo jobrun.Repository,
	ids id.Generator,
	logger *logging.Logger,
) *JobService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &JobService{
		reconciler: reconciler,
		scheduler:  scheduler,
		standings:  standings,
		dispatcher: dispatcher,
		runRepo:    runRepo,
		ids:        ids,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *JobService) Sync(ctx context.Context, trigger string, input SyncInput) (SyncResult, error) {
	scope := map[string]any{"sport_id": input.SportID, "season": input.Season, "week": input.Week}
	return runJob(ctx, s, jobrun.JobSync, trigger, scope, func(ctx context.Context) (SyncResult, error) {
		return s.reconciler.Sync(ctx, input)
	})
}

func (s *JobService) SyncCurrentWeeks(ctx context.Context, trigger string) (SyncCurrentResult, error) {
	return runJob(ctx, s, jobrun.JobSyncCurrent, trigger, nil, s.reconciler.SyncCurrentWeeks)
}

func (s *JobService) SweepReminders(ctx context.Context, trigger string) (SweepResult, error) {
	return runJob(ctx, s, jobrun.JobSweepReminders, trigger, nil, s.scheduler.SweepReminders)
}

func (s *JobService) DispatchNotifications(ctx context.Context, trigger string) (DispatchResult, error) {
	return runJob(ctx, s, jobrun.JobDispatchNotifications, trigger, nil, s.dispatcher.DispatchDue)
}

func (s *JobService) CalculateStandings(ctx context.Context, trigger string, input CalculateStandingsJobInput) (StandingsJobResult, error) {
	scope := map[string]any{"league_id": input.LeagueID, "sport_id": input.SportID, "season": input.Season, "week": input.Week}
	return runJob(ctx, s, jobrun.JobCalculateStandings, trigger, scope, func(ctx context.Context) (StandingsJobResult, error) {
		if input.LeagueID > 0 {
			res, err := s.standings.Calculate(ctx, standing.Scope{
				LeagueID: input.LeagueID,
				SportID:  input.SportID,
				Season:   input.Season,
				Week:     input.Week,
			})
			if err != nil {
				return StandingsJobResult{}, err
			}
			return StandingsJobResult{League: &res}, nil
		}
		res, err := s.standings.RecalculateSportWeek(ctx, input.SportID, input.Season, input.Week)
		if err != nil {
			return StandingsJobResult{}, err
		}
		return StandingsJobResult{Sport: &res}, nil
	})
}

// RecalculateCurrentStandings is the scheduled variant over every sport's current week.
func (s *JobService) RecalculateCurrentStandings(ctx context.Context, trigger string) ([]RecalculateResult, error) {
	return runJob(ctx, s, jobrun.JobCalculateStandings, trigger, map[string]any{"scope": "current"}, s.standings.RecalculateCurrentWeeks)
}

func runJob[T any](
	ctx context.Context,
	s *JobService,
	name, trigger string,
	scope map[string]any,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobService."+name)
	defer span.End()

	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate job run id failed", "job", name, "error", err)
	}
	started := s.now().UTC()
	s.recordEvent(ctx, jobrun.Event{
		RunID:      runID,
		JobName:    name,
		Trigger:    trigger,
		Status:     jobrun.StatusStarted,
		Scope:      scope,
		OccurredAt: started,
	})

	result, err := fn(ctx)
	finished := s.now().UTC()
	if err != nil {
		s.recordEvent(ctx, jobrun.Event{
			RunID:        runID,
			JobName:      name,
			Trigger:      trigger,
			Status:       jobrun.StatusFailed,
			Scope:        scope,
			ErrorMessage: err.Error(),
			OccurredAt:   finished,
		})
		s.logger.WarnContext(ctx, "job failed",
			"job", name,
			"run_id", runID,
			"trigger", trigger,
			"duration_ms", finished.Sub(started).Milliseconds(),
			"error", err,
		)
		return result, err
	}

	s.recordEvent(ctx, jobrun.Event{
		RunID:      runID,
		JobName:    name,
		Trigger:    trigger,
		Status:     jobrun.StatusCompleted,
		Scope:      scope,
		Result:     result,
		OccurredAt: finished,
	})
	s.logger.InfoContext(ctx, "job completed",
		"job", name,
		"run_id", runID,
		"trigger", trigger,
		"duration_ms", finished.Sub(started).Milliseconds(),
	)
	return result, nil
}

func (s *JobService) recordEvent(ctx context.Context, event jobrun.Event) {
	if s.runRepo == nil || strings.TrimSpace(event.RunID) == "" {
		return
	}
	event.TraceID, event.SpanID = traceMetaFromContext(ctx)
	if err := s.runRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job run event failed",
			"run_id", event.RunID,
			"job", event.JobName,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
