package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

type SubmitPickInput struct {
	UserID     int64
	LeagueID   int64
	GameID     int64
	PickedTeam string
}

type ListPicksInput struct {
	UserID   int64
	LeagueID int64
	SportID  int64
	Season   string
	Week     int
}

type PickService struct {
	leagueRepo league.Repository
	gameRepo   game.Repository
	pickRepo   pick.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewPickService(leagueRepo league.Repository, gameRepo game.Repository, pickRepo pick.Repository, logger *logging.Logger) *PickService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PickService{
		leagueRepo: leagueRepo,
		gameRepo:   gameRepo,
		pickRepo:   pickRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit creates or replaces the user's pick for a game in a league. Picks
// lock at kickoff. Membership is checked by the caller.
func (s *PickService) Submit(ctx context.Context, input SubmitPickInput) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Submit")
	defer span.End()

	input.PickedTeam = strings.TrimSpace(input.PickedTeam)
	switch {
	case input.UserID <= 0:
		return pick.Pick{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	case input.LeagueID <= 0:
		return pick.Pick{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	case input.GameID <= 0:
		return pick.Pick{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	case input.PickedTeam == "":
		return pick.Pick{}, fmt.Errorf("%w: picked team is required", ErrInvalidInput)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return pick.Pick{}, fmt.Errorf("%w: game=%d", ErrNotFound, input.GameID)
	}
	if !g.HasTeam(input.PickedTeam) {
		return pick.Pick{}, fmt.Errorf("%w: team %q is not playing in game=%d", ErrInvalidInput, input.PickedTeam, g.ID)
	}

	now := s.now().UTC()
	if g.HasStarted(now) {
		return pick.Pick{}, fmt.Errorf("%w: game=%d has already kicked off", ErrPrecondition, g.ID)
	}

	actives, err := s.leagueRepo.ListActiveSportsForUser(ctx, input.UserID)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("list active sports: %w", err)
	}
	active := false
	for _, item := range actives {
		if item.LeagueID == input.LeagueID && item.Sport.ID == g.SportID {
			active = true
			break
		}
	}
	if !active {
		return pick.Pick{}, fmt.Errorf("%w: sport=%d is not active in league=%d", ErrInvalidInput, g.SportID, input.LeagueID)
	}

	saved, err := s.pickRepo.Upsert(ctx, pick.Pick{
		UserID:     input.UserID,
		GameID:     g.ID,
		LeagueID:   input.LeagueID,
		PickedTeam: input.PickedTeam,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return pick.Pick{}, fmt.Errorf("upsert pick: %w", err)
	}
	return saved, nil
}

// List returns the user's picks in a league for one sport week.
func (s *PickService) List(ctx context.Context, input ListPicksInput) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.List")
	defer span.End()

	input.Season = strings.TrimSpace(input.Season)
	if input.UserID <= 0 || input.LeagueID <= 0 || input.SportID <= 0 {
		return nil, fmt.Errorf("%w: user, league and sport are required", ErrInvalidInput)
	}
	if input.Season == "" || input.Week <= 0 {
		return nil, fmt.Errorf("%w: season and week are required", ErrInvalidInput)
	}

	games, err := s.gameRepo.List(ctx, game.Filter{SportID: input.SportID, Season: input.Season, Week: input.Week})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		return []pick.Pick{}, nil
	}
	gameIDs := make([]int64, 0, len(games))
	for _, g := range games {
		gameIDs = append(gameIDs, g.ID)
	}

	items, err := s.pickRepo.List(ctx, pick.Filter{UserID: input.UserID, LeagueID: input.LeagueID, GameIDs: gameIDs})
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	return items, nil
}
