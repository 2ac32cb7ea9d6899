package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/notification"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

// Mailer is the outbound message transport.
type Mailer interface {
	Send(ctx context.Context, msg notification.Message) error
}

// MessageRenderer turns notification content into a message for one user.
type MessageRenderer interface {
	RenderReminder(recipient user.User, outstanding []pick.Outstanding) (notification.Message, error)
	RenderGameUpdates(recipient user.User, stale []pick.StaleGame) (notification.Message, error)
}

// errRenderFailed marks a message that could not be built from current data.
// Rendering is deterministic, so such requests are not retried.
var errRenderFailed = errors.New("render notification")

type NotificationDispatcherConfig struct {
	BatchSize   int
	SendTimeout time.Duration
}

type DispatchResult struct {
	Due       int `json:"due"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Unhandled int `json:"unhandled"`
}

type NotificationDispatcherService struct {
	notificationRepo notification.Repository
	userRepo         user.Repository
	leagueRepo       league.Repository
	gameRepo         game.Repository
	pickRepo         pick.Repository
	renderer         MessageRenderer
	mailer           Mailer
	cfg              NotificationDispatcherConfig
	logger           *logging.Logger
	now              func() time.Time
}

func NewNotificationDispatcherService(
	notificationRepo notification.Repository,
	userRepo user.Repository,
	leagueRepo league.Repository,
	gameRepo game.Repository,
	pickRepo pick.Repository,
	renderer MessageRenderer,
	mailer Mailer,
	cfg NotificationDispatcherConfig,
	logger *logging.Logger,
) *NotificationDispatcherService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}

	return &NotificationDispatcherService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		leagueRepo:       leagueRepo,
		gameRepo:         gameRepo,
		pickRepo:         pickRepo,
		renderer:         renderer,
		mailer:           mailer,
		cfg:              cfg,
		logger:           logger,
		now:              time.Now,
	}
}

// DispatchDue drains requests that are due. Each request is re-checked
// against current data, marked processed, then handed to the transport.
// Delivery is at most once: a transport or render failure is logged and the
// request stays processed.
func (s *NotificationDispatcherService) DispatchDue(ctx context.Context) (DispatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationDispatcherService.DispatchDue")
	defer span.End()

	now := s.now().UTC()
	due, err := s.notificationRepo.ListDue(ctx, now, s.cfg.BatchSize)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("list due notifications: %w", err)
	}

	result := DispatchResult{Due: len(due)}
	for _, req := range due {
		msg, send, err := s.prepare(ctx, req, now)
		renderFailed := errors.Is(err, errRenderFailed)
		if err != nil && !renderFailed {
			// Leave it unprocessed so the next run retries the re-check.
			result.Unhandled++
			s.logger.WarnContext(ctx, "prepare notification failed",
				"notification_id", req.ID,
				"user_id", req.UserID,
				"type", req.Type,
				"error", err,
			)
			continue
		}
		if renderFailed {
			s.logger.ErrorContext(ctx, "render notification failed, dropping request",
				"notification_id", req.ID,
				"user_id", req.UserID,
				"type", req.Type,
				"error", err,
			)
		}

		if err := s.notificationRepo.MarkProcessed(ctx, req.ID, now); err != nil {
			result.Unhandled++
			s.logger.WarnContext(ctx, "mark notification processed failed", "notification_id", req.ID, "error", err)
			continue
		}
		if renderFailed {
			result.Failed++
			continue
		}
		if !send {
			result.Skipped++
			continue
		}

		if err := s.deliver(ctx, msg); err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "send notification failed",
				"notification_id", req.ID,
				"user_id", req.UserID,
				"type", req.Type,
				"error", err,
			)
			continue
		}
		result.Sent++
	}

	s.logger.InfoContext(ctx, "notification dispatch finished",
		"due", result.Due,
		"sent", result.Sent,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"unhandled", result.Unhandled,
	)
	return result, nil
}

func (s *NotificationDispatcherService) deliver(ctx context.Context, msg notification.Message) error {
	if s.mailer == nil {
		return fmt.Errorf("%w: mailer is not configured", ErrDependencyUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	return s.mailer.Send(ctx, msg)
}

// prepare re-checks the request and renders the message. send=false means
// there is nothing left to tell the user.
func (s *NotificationDispatcherService) prepare(ctx context.Context, req notification.Request, now time.Time) (notification.Message, bool, error) {
	recipient, exists, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return notification.Message{}, false, fmt.Errorf("get user: %w", err)
	}
	if !exists || strings.TrimSpace(recipient.Email) == "" {
		return notification.Message{}, false, nil
	}
	if s.renderer == nil {
		return notification.Message{}, false, fmt.Errorf("%w: renderer is not configured", ErrDependencyUnavailable)
	}

	switch req.Type {
	case notification.TypeRemindPicks:
		outstanding, err := s.outstandingPicks(ctx, req.UserID, now)
		if err != nil {
			return notification.Message{}, false, err
		}
		if len(outstanding) == 0 {
			return notification.Message{}, false, nil
		}
		msg, err := s.renderer.RenderReminder(recipient, outstanding)
		if err != nil {
			return notification.Message{}, false, fmt.Errorf("%w: reminder: %w", errRenderFailed, err)
		}
		return msg, true, nil

	case notification.TypeGameUpdated:
		stale, err := s.pickRepo.ListStale(ctx, req.UserID, now)
		if err != nil {
			return notification.Message{}, false, fmt.Errorf("list stale picks: %w", err)
		}
		if len(stale) == 0 {
			return notification.Message{}, false, nil
		}
		msg, err := s.renderer.RenderGameUpdates(recipient, stale)
		if err != nil {
			return notification.Message{}, false, fmt.Errorf("%w: game updates: %w", errRenderFailed, err)
		}
		return msg, true, nil

	default:
		s.logger.WarnContext(ctx, "unknown notification type", "notification_id", req.ID, "type", req.Type)
		return notification.Message{}, false, nil
	}
}

// outstandingPicks lists current-week games with a future kickoff and no
// pick, across every league where the user has the sport active.
func (s *NotificationDispatcherService) outstandingPicks(ctx context.Context, userID int64, now time.Time) ([]pick.Outstanding, error) {
	actives, err := s.leagueRepo.ListActiveSportsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active sports: %w", err)
	}

	gamesBySport := make(map[int64][]game.Game)
	out := make([]pick.Outstanding, 0)
	for _, active := range actives {
		if !active.Sport.HasCurrentWeek() {
			continue
		}
		games, ok := gamesBySport[active.Sport.ID]
		if !ok {
			games, err = s.gameRepo.List(ctx, game.Filter{
				SportID:      active.Sport.ID,
				Season:       active.Sport.CurrentSeason,
				Week:         active.Sport.CurrentWeek,
				KickoffAfter: now,
			})
			if err != nil {
				return nil, fmt.Errorf("list upcoming games sport=%d: %w", active.Sport.ID, err)
			}
			gamesBySport[active.Sport.ID] = games
		}
		if len(games) == 0 {
			continue
		}

		gameIDs := make([]int64, 0, len(games))
		for _, g := range games {
			gameIDs = append(gameIDs, g.ID)
		}
		picks, err := s.pickRepo.List(ctx, pick.Filter{UserID: userID, LeagueID: active.LeagueID, GameIDs: gameIDs})
		if err != nil {
			return nil, fmt.Errorf("list picks league=%d: %w", active.LeagueID, err)
		}
		picked := make(map[int64]struct{}, len(picks))
		for _, p := range picks {
			picked[p.GameID] = struct{}{}
		}

		for _, g := range games {
			if _, ok := picked[g.ID]; ok {
				continue
			}
			out = append(out, pick.Outstanding{
				LeagueID:   active.LeagueID,
				LeagueName: active.LeagueName,
				SportName:  active.Sport.Name,
				Game:       g,
			})
		}
	}
	return out, nil
}
