package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/notification"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

type NotificationSchedulerConfig struct {
	// ReminderLead is how long before the earliest kickoff reminders go out.
	ReminderLead time.Duration
	// DedupWindow is the half-width of the window searched for an existing reminder.
	DedupWindow time.Duration
}

// GameUpdatePair is a (user, game) candidate forwarded after a material change.
type GameUpdatePair struct {
	UserID int64
	GameID int64
}

type SweepResult struct {
	SportCount   int                `json:"sport_count"`
	Scheduled    int                `json:"scheduled"`
	Deduplicated int                `json:"deduplicated"`
	Sports       []SportSweepResult `json:"sports"`
}

type SportSweepResult struct {
	SportID      int64      `json:"sport_id"`
	Season       string     `json:"season"`
	Week         int        `json:"week"`
	ReminderAt   *time.Time `json:"reminder_at,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	Scheduled    int        `json:"scheduled"`
	Deduplicated int        `json:"deduplicated"`
}

type NotificationSchedulerService struct {
	sportRepo        sport.Repository
	gameRepo         game.Repository
	leagueRepo       league.Repository
	pickRepo         pick.Repository
	notificationRepo notification.Repository
	tx               Transactor
	cfg              NotificationSchedulerConfig
	logger           *logging.Logger
	now              func() time.Time
}

func NewNotificationSchedulerService(
	sportRepo sport.Repository,
	gameRepo game.Repository,
	leagueRepo league.Repository,
	pickRepo pick.Repository,
	notificationRepo notification.Repository,
	tx Transactor,
	cfg NotificationSchedulerConfig,
	logger *logging.Logger,
) *NotificationSchedulerService {
	if tx == nil {
		tx = NewNoopTransactor()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ReminderLead <= 0 {
		cfg.ReminderLead = 24 * time.Hour
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = time.Hour
	}

	return &NotificationSchedulerService{
		sportRepo:        sportRepo,
		gameRepo:         gameRepo,
		leagueRepo:       leagueRepo,
		pickRepo:         pickRepo,
		notificationRepo: notificationRepo,
		tx:               tx,
		cfg:              cfg,
		logger:           logger,
		now:              time.Now,
	}
}

// ScheduleGameUpdates inserts one GAME_UPDATED request per user, due now, for
// the forwarded pairs. It joins the caller's transaction when ctx carries one.
// A user is skipped when they no longer pick the game, or when an unprocessed
// GAME_UPDATED created after their latest pick edit is already waiting.
func (s *NotificationSchedulerService) ScheduleGameUpdates(ctx context.Context, pairs []GameUpdatePair) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationSchedulerService.ScheduleGameUpdates")
	defer span.End()

	if len(pairs) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	gamesByUser := make(map[int64][]int64, len(pairs))
	order := make([]int64, 0, len(pairs))
	for _, pair := range pairs {
		if pair.UserID <= 0 || pair.GameID <= 0 {
			continue
		}
		if _, ok := gamesByUser[pair.UserID]; !ok {
			order = append(order, pair.UserID)
		}
		gamesByUser[pair.UserID] = append(gamesByUser[pair.UserID], pair.GameID)
	}

	created := 0
	for _, userID := range order {
		picks, err := s.pickRepo.List(ctx, pick.Filter{UserID: userID, GameIDs: gamesByUser[userID]})
		if err != nil {
			return created, fmt.Errorf("list picks user=%d: %w", userID, err)
		}
		if len(picks) == 0 {
			continue
		}

		latest := picks[0].UpdatedAt
		for _, p := range picks[1:] {
			if p.UpdatedAt.After(latest) {
				latest = p.UpdatedAt
			}
		}
		covered, err := s.notificationRepo.HasPendingSince(ctx, userID, notification.TypeGameUpdated, latest)
		if err != nil {
			return created, fmt.Errorf("check pending game update user=%d: %w", userID, err)
		}
		if covered {
			continue
		}

		req, err := notification.NewRequest(userID, notification.TypeGameUpdated, now, now)
		if err != nil {
			return created, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, err := s.notificationRepo.Create(ctx, req); err != nil {
			return created, fmt.Errorf("create game update request user=%d: %w", userID, err)
		}
		created++
	}

	return created, nil
}

// SweepReminders schedules REMIND_PICKS for every sport's current week in a
// single transaction.
func (s *NotificationSchedulerService) SweepReminders(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationSchedulerService.SweepReminders")
	defer span.End()

	now := s.now().UTC()
	var result SweepResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		result = SweepResult{}
		sports, err := s.sportRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list sports: %w", err)
		}
		result.SportCount = len(sports)
		result.Sports = make([]SportSweepResult, 0, len(sports))

		for _, item := range sports {
			sweep, err := s.sweepSport(ctx, item, now)
			if err != nil {
				return err
			}
			result.Scheduled += sweep.Scheduled
			result.Deduplicated += sweep.Deduplicated
			result.Sports = append(result.Sports, sweep)
		}
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	s.logger.InfoContext(ctx, "reminder sweep finished",
		"sports", result.SportCount,
		"scheduled", result.Scheduled,
		"deduplicated", result.Deduplicated,
	)
	return result, nil
}

func (s *NotificationSchedulerService) sweepSport(ctx context.Context, item sport.Sport, now time.Time) (SportSweepResult, error) {
	out := SportSweepResult{SportID: item.ID, Season: item.CurrentSeason, Week: item.CurrentWeek}
	if !item.HasCurrentWeek() {
		out.Reason = "no current week"
		return out, nil
	}

	earliest, ok, err := s.gameRepo.EarliestKickoff(ctx, item.ID, item.CurrentSeason, item.CurrentWeek, now)
	if err != nil {
		return out, fmt.Errorf("earliest kickoff sport=%d: %w", item.ID, err)
	}
	if !ok {
		out.Reason = "no upcoming games"
		return out, nil
	}

	reminderAt := earliest.Add(-s.cfg.ReminderLead).UTC()
	out.ReminderAt = &reminderAt
	if !reminderAt.After(now) {
		out.Reason = "reminder time passed"
		return out, nil
	}

	userIDs, err := s.leagueRepo.ListMemberIDsBySport(ctx, item.ID)
	if err != nil {
		return out, fmt.Errorf("list members sport=%d: %w", item.ID, err)
	}

	from := reminderAt.Add(-s.cfg.DedupWindow)
	to := reminderAt.Add(s.cfg.DedupWindow)
	for _, userID := range userIDs {
		exists, err := s.notificationRepo.ExistsInWindow(ctx, userID, notification.TypeRemindPicks, from, to)
		if err != nil {
			return out, fmt.Errorf("check reminder window user=%d: %w", userID, err)
		}
		if exists {
			out.Deduplicated++
			continue
		}

		req, err := notification.NewRequest(userID, notification.TypeRemindPicks, reminderAt, now)
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, err := s.notificationRepo.Create(ctx, req); err != nil {
			return out, fmt.Errorf("create reminder user=%d: %w", userID, err)
		}
		out.Scheduled++
	}

	return out, nil
}
