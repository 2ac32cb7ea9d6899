package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/pickem-league/internal/domain/league"
)

// LeagueAccessService is the authorization gate in front of league scoped
// operations. Callers past it are trusted by the pipeline.
type LeagueAccessService struct {
	leagueRepo league.Repository
}

func NewLeagueAccessService(leagueRepo league.Repository) *LeagueAccessService {
	return &LeagueAccessService{leagueRepo: leagueRepo}
}

func (s *LeagueAccessService) RequireMember(ctx context.Context, leagueID, userID int64) (league.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueAccessService.RequireMember")
	defer span.End()

	if leagueID <= 0 {
		return league.Member{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if userID <= 0 {
		return league.Member{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.Member{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.Member{}, fmt.Errorf("%w: league=%d", ErrNotFound, leagueID)
	}

	member, ok, err := s.leagueRepo.GetMember(ctx, leagueID, userID)
	if err != nil {
		return league.Member{}, fmt.Errorf("get league member: %w", err)
	}
	if !ok {
		return league.Member{}, fmt.Errorf("%w: user=%d is not a member of league=%d", ErrForbidden, userID, leagueID)
	}
	return member, nil
}

func (s *LeagueAccessService) RequireAdmin(ctx context.Context, leagueID, userID int64) (league.Member, error) {
	member, err := s.RequireMember(ctx, leagueID, userID)
	if err != nil {
		return league.Member{}, err
	}
	if !member.IsAdmin {
		return league.Member{}, fmt.Errorf("%w: user=%d is not an admin of league=%d", ErrForbidden, userID, leagueID)
	}
	return member, nil
}
