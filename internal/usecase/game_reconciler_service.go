package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

// GameSource fetches the external feed for one sport/season/week.
type GameSource interface {
	FetchEvents(ctx context.Context, item sport.Sport, season string, week int) ([]game.Record, error)
}

type GameReconcilerConfig struct {
	// MaxWorkers bounds concurrent sports in SyncCurrentWeeks.
	MaxWorkers int
}

type SyncInput struct {
	SportID int64
	Season  string
	Week    int
}

type SyncResult struct {
	SportID             int64    `json:"sport_id"`
	Season              string   `json:"season"`
	Week                int      `json:"week"`
	Fetched             int      `json:"fetched"`
	Created             int      `json:"created"`
	Updated             int      `json:"updated"`
	Unchanged           int      `json:"unchanged"`
	Skipped             int      `json:"skipped"`
	MaterialChanges     int      `json:"material_changes"`
	NotificationsQueued int      `json:"notifications_queued"`
	Advanced            bool     `json:"advanced"`
	SkippedExternalIDs  []string `json:"skipped_external_ids,omitempty"`
}

type SyncCurrentResult struct {
	SportCount int          `json:"sport_count"`
	Synced     []SyncResult `json:"synced"`
	Failed     []SyncFailed `json:"failed,omitempty"`
}

type SyncFailed struct {
	SportID int64  `json:"sport_id"`
	Error   string `json:"error"`
}

type GameReconcilerService struct {
	sportRepo sport.Repository
	gameRepo  game.Repository
	pickRepo  pick.Repository
	source    GameSource
	scheduler *NotificationSchedulerService
	tx        Transactor
	cfg       GameReconcilerConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewGameReconcilerService(
	sportRepo sport.Repository,
	gameRepo game.Repository,
	pickRepo pick.Repository,
	source GameSource,
	scheduler *NotificationSchedulerService,
	tx Transactor,
	cfg GameReconcilerConfig,
	logger *logging.Logger,
) *GameReconcilerService {
	if tx == nil {
		tx = NewNoopTransactor()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}

	return &GameReconcilerService{
		sportRepo: sportRepo,
		gameRepo:  gameRepo,
		pickRepo:  pickRepo,
		source:    source,
		scheduler: scheduler,
		tx:        tx,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Sync reconciles one week of the feed into local games. The upserts, the
// change-driven notifications and the current week advance share one
// transaction; a feed failure aborts before anything is written.
func (s *GameReconcilerService) Sync(ctx context.Context, input SyncInput) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameReconcilerService.Sync")
	defer span.End()

	input.Season = strings.TrimSpace(input.Season)
	if input.SportID <= 0 {
		return SyncResult{}, fmt.Errorf("%w: sport id is required", ErrInvalidInput)
	}
	if input.Season == "" {
		return SyncResult{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if input.Week <= 0 {
		return SyncResult{}, fmt.Errorf("%w: week must be > 0", ErrInvalidInput)
	}

	item, exists, err := s.sportRepo.GetByID(ctx, input.SportID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("get sport: %w", err)
	}
	if !exists {
		return SyncResult{}, fmt.Errorf("%w: sport=%d", ErrNotFound, input.SportID)
	}

	raw, err := s.source.FetchEvents(ctx, item, input.Season, input.Week)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: fetch events sport=%d season=%s week=%d: %v",
			ErrUpstream, item.ID, input.Season, input.Week, err)
	}

	now := s.now().UTC()
	var result SyncResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		result = SyncResult{
			SportID: item.ID,
			Season:  input.Season,
			Week:    input.Week,
			Fetched: len(raw),
		}

		changed, err := s.reconcile(ctx, item, input, raw, now, &result)
		if err != nil {
			return err
		}

		pairs, err := s.collectPickers(ctx, changed, now)
		if err != nil {
			return err
		}
		if s.scheduler != nil {
			queued, err := s.scheduler.ScheduleGameUpdates(ctx, pairs)
			if err != nil {
				return fmt.Errorf("schedule game updates: %w", err)
			}
			result.NotificationsQueued = queued
		}

		if !item.IsCurrent(input.Season, input.Week) {
			if err := s.sportRepo.UpdateCurrentWeek(ctx, item.ID, input.Season, input.Week); err != nil {
				return fmt.Errorf("advance current week sport=%d: %w", item.ID, err)
			}
			result.Advanced = true
		}
		return nil
	})
	if err != nil {
		return SyncResult{}, err
	}

	s.logger.InfoContext(ctx, "game sync finished",
		"sport_id", item.ID,
		"season", input.Season,
		"week", input.Week,
		"fetched", result.Fetched,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"material_changes", result.MaterialChanges,
		"notifications_queued", result.NotificationsQueued,
		"advanced", result.Advanced,
	)
	return result, nil
}

// reconcile upserts every usable record and returns the games whose change
// was material.
func (s *GameReconcilerService) reconcile(
	ctx context.Context,
	item sport.Sport,
	input SyncInput,
	raw []game.Record,
	now time.Time,
	result *SyncResult,
) ([]game.Game, error) {
	seen := make(map[string]struct{}, len(raw))
	changed := make([]game.Game, 0)

	for _, candidate := range raw {
		rec, err := game.NewRecord(candidate)
		if err != nil {
			result.Skipped++
			result.SkippedExternalIDs = append(result.SkippedExternalIDs, strings.TrimSpace(candidate.ExternalID))
			s.logger.WarnContext(ctx, "skip malformed event record",
				"sport_id", item.ID,
				"external_id", candidate.ExternalID,
				"error", err,
			)
			continue
		}
		if _, dup := seen[rec.ExternalID]; dup {
			result.Skipped++
			s.logger.WarnContext(ctx, "skip duplicate event record", "sport_id", item.ID, "external_id", rec.ExternalID)
			continue
		}
		seen[rec.ExternalID] = struct{}{}

		existing, exists, err := s.gameRepo.GetByExternalID(ctx, rec.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("get game external_id=%s: %w", rec.ExternalID, err)
		}
		if !exists {
			if _, err := s.gameRepo.Insert(ctx, game.FromRecord(rec, item.ID, input.Season, input.Week, now)); err != nil {
				return nil, fmt.Errorf("insert game external_id=%s: %w", rec.ExternalID, err)
			}
			result.Created++
			continue
		}

		next, change := existing.Apply(rec, input.Season, input.Week, now)
		if !change.Modified {
			result.Unchanged++
			continue
		}
		if err := s.gameRepo.Update(ctx, next); err != nil {
			return nil, fmt.Errorf("update game external_id=%s: %w", rec.ExternalID, err)
		}
		result.Updated++
		if change.Material {
			result.MaterialChanges++
			changed = append(changed, next)
		}
	}

	return changed, nil
}

// collectPickers forwards (user, game) pairs for changed games still in the future.
func (s *GameReconcilerService) collectPickers(ctx context.Context, changed []game.Game, now time.Time) ([]GameUpdatePair, error) {
	pairs := make([]GameUpdatePair, 0)
	for _, g := range changed {
		if g.HasStarted(now) {
			continue
		}
		userIDs, err := s.pickRepo.ListPickerIDs(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("list pickers game=%d: %w", g.ID, err)
		}
		for _, userID := range userIDs {
			pairs = append(pairs, GameUpdatePair{UserID: userID, GameID: g.ID})
		}
	}
	return pairs, nil
}

// SyncCurrentWeeks runs Sync for every sport at its stored season/week.
// Sports are synced in parallel, each in its own transaction; one sport
// failing does not stop the others.
func (s *GameReconcilerService) SyncCurrentWeeks(ctx context.Context) (SyncCurrentResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameReconcilerService.SyncCurrentWeeks")
	defer span.End()

	sports, err := s.sportRepo.List(ctx)
	if err != nil {
		return SyncCurrentResult{}, fmt.Errorf("list sports: %w", err)
	}

	targets := make([]sport.Sport, 0, len(sports))
	for _, item := range sports {
		if item.HasCurrentWeek() {
			targets = append(targets, item)
		}
	}
	result := SyncCurrentResult{SportCount: len(targets)}
	if len(targets) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(min(s.cfg.MaxWorkers, len(targets)))
	if err != nil {
		return SyncCurrentResult{}, fmt.Errorf("create sync worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, item := range targets {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			synced, err := s.Sync(ctx, SyncInput{SportID: item.ID, Season: item.CurrentSeason, Week: item.CurrentWeek})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.WarnContext(ctx, "sync current week failed", "sport_id", item.ID, "error", err)
				result.Failed = append(result.Failed, SyncFailed{SportID: item.ID, Error: err.Error()})
				return
			}
			result.Synced = append(result.Synced, synced)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Failed = append(result.Failed, SyncFailed{SportID: item.ID, Error: submitErr.Error()})
			mu.Unlock()
		}
	}
	wg.Wait()

	sort.Slice(result.Synced, func(i, j int) bool { return result.Synced[i].SportID < result.Synced[j].SportID })
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].SportID < result.Failed[j].SportID })

	if len(result.Synced) == 0 && len(result.Failed) > 0 {
		return result, fmt.Errorf("sync current weeks: all %d sports failed, first sport=%d: %s",
			len(result.Failed), result.Failed[0].SportID, result.Failed[0].Error)
	}
	return result, nil
}
