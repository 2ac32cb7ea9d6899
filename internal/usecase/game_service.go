package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
)

type GameService struct {
	sportRepo sport.Repository
	gameRepo  game.Repository
}

func NewGameService(sportRepo sport.Repository, gameRepo game.Repository) *GameService {
	return &GameService{sportRepo: sportRepo, gameRepo: gameRepo}
}

// ListByWeek lists a sport's games. Empty season or zero week fall back to
// the sport's current pointer.
func (s *GameService) ListByWeek(ctx context.Context, sportID int64, season string, week int) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListByWeek")
	defer span.End()

	if sportID <= 0 {
		return nil, fmt.Errorf("%w: sport id is required", ErrInvalidInput)
	}
	item, exists, err := s.sportRepo.GetByID(ctx, sportID)
	if err != nil {
		return nil, fmt.Errorf("get sport: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: sport=%d", ErrNotFound, sportID)
	}

	season = strings.TrimSpace(season)
	if season == "" {
		season = item.CurrentSeason
	}
	if week <= 0 {
		week = item.CurrentWeek
	}
	if season == "" || week <= 0 {
		return nil, fmt.Errorf("%w: season and week are required until the sport has been synced", ErrInvalidInput)
	}

	items, err := s.gameRepo.List(ctx, game.Filter{SportID: sportID, Season: season, Week: week})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return items, nil
}

func (s *GameService) ListSports(ctx context.Context) ([]sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListSports")
	defer span.End()

	items, err := s.sportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	return items, nil
}
