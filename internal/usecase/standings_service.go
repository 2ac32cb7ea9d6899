package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

var ErrNothingToScore = fmt.Errorf("%w: nothing to score", ErrPrecondition)

type StandingsConfig struct {
	// MaxWorkers bounds leagues recomputed in parallel.
	MaxWorkers int
}

type CalculateResult struct {
	LeagueID   int64          `json:"league_id"`
	SportID    int64          `json:"sport_id"`
	Season     string         `json:"season"`
	Week       int            `json:"week"`
	FinalGames int            `json:"final_games"`
	Members    int            `json:"members"`
	Rows       []standing.Row `json:"-"`
}

type RecalculateResult struct {
	SportID  int64               `json:"sport_id"`
	Season   string              `json:"season"`
	Week     int                 `json:"week"`
	Computed []CalculateResult   `json:"computed"`
	Skipped  []int64             `json:"skipped_league_ids,omitempty"`
	Failed   []RecalculateFailed `json:"failed,omitempty"`
}

type RecalculateFailed struct {
	LeagueID int64  `json:"league_id"`
	Error    string `json:"error"`
}

type StandingsService struct {
	sportRepo    sport.Repository
	gameRepo     game.Repository
	leagueRepo   league.Repository
	pickRepo     pick.Repository
	standingRepo standing.Repository
	tx           Transactor
	cfg          StandingsConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewStandingsService(
	sportRepo sport.Repository,
	gameRepo game.Repository,
	leagueRepo league.Repository,
	pickRepo pick.Repository,
	standingRepo standing.Repository,
	tx Transactor,
	cfg StandingsConfig,
	logger *logging.Logger,
) *StandingsService {
	if tx == nil {
		tx = NewNoopTransactor()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}

	return &StandingsService{
		sportRepo:    sportRepo,
		gameRepo:     gameRepo,
		leagueRepo:   leagueRepo,
		pickRepo:     pickRepo,
		standingRepo: standingRepo,
		tx:           tx,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Calculate recomputes one standing row per league member for the scope
// and overwrites whatever was stored. The caller has already been checked
// for admin rights on the league.
func (s *StandingsService) Calculate(ctx context.Context, scope standing.Scope) (CalculateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Calculate")
	defer span.End()

	scope.Season = strings.TrimSpace(scope.Season)
	if err := scope.Validate(); err != nil {
		return CalculateResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, scope.LeagueID)
	if err != nil {
		return CalculateResult{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return CalculateResult{}, fmt.Errorf("%w: league=%d", ErrNotFound, scope.LeagueID)
	}
	if _, exists, err := s.sportRepo.GetByID(ctx, scope.SportID); err != nil {
		return CalculateResult{}, fmt.Errorf("get sport: %w", err)
	} else if !exists {
		return CalculateResult{}, fmt.Errorf("%w: sport=%d", ErrNotFound, scope.SportID)
	}

	now := s.now().UTC()
	var result CalculateResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		games, err := s.gameRepo.List(ctx, game.Filter{
			SportID: scope.SportID,
			Season:  scope.Season,
			Week:    scope.Week,
			Status:  game.StatusFinal,
		})
		if err != nil {
			return fmt.Errorf("list final games: %w", err)
		}
		if len(games) == 0 {
			return fmt.Errorf("%w: %s", ErrNothingToScore, scope)
		}

		members, err := s.leagueRepo.ListMembers(ctx, scope.LeagueID)
		if err != nil {
			return fmt.Errorf("list league members: %w", err)
		}

		gameIDs := make([]int64, 0, len(games))
		for _, g := range games {
			gameIDs = append(gameIDs, g.ID)
		}
		picks, err := s.pickRepo.List(ctx, pick.Filter{LeagueID: scope.LeagueID, GameIDs: gameIDs})
		if err != nil {
			return fmt.Errorf("list picks: %w", err)
		}
		picksByUser := make(map[int64]map[int64]string, len(members))
		for _, p := range picks {
			if picksByUser[p.UserID] == nil {
				picksByUser[p.UserID] = make(map[int64]string)
			}
			picksByUser[p.UserID][p.GameID] = p.PickedTeam
		}

		rows := make([]standing.Row, 0, len(members))
		for _, member := range members {
			tally := standing.Score(lg.TiebreakerEnabled, games, picksByUser[member.UserID])
			rows = append(rows, standing.Row{
				Scope:     scope,
				UserID:    member.UserID,
				Wins:      tally.Wins,
				Losses:    tally.Losses,
				Ties:      tally.Ties,
				Points:    tally.Points(),
				UpdatedAt: now,
			})
		}
		if err := s.standingRepo.Upsert(ctx, rows); err != nil {
			return fmt.Errorf("upsert standings: %w", err)
		}

		result = CalculateResult{
			LeagueID:   scope.LeagueID,
			SportID:    scope.SportID,
			Season:     scope.Season,
			Week:       scope.Week,
			FinalGames: len(games),
			Members:    len(members),
			Rows:       rows,
		}
		return nil
	})
	if err != nil {
		return CalculateResult{}, err
	}

	s.logger.InfoContext(ctx, "standings calculated",
		"league_id", scope.LeagueID,
		"sport_id", scope.SportID,
		"season", scope.Season,
		"week", scope.Week,
		"final_games", result.FinalGames,
		"members", result.Members,
	)
	return result, nil
}

// List returns aggregated standings, summed across weeks when query.Week is nil.
func (s *StandingsService) List(ctx context.Context, query standing.Query) ([]standing.Total, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.List")
	defer span.End()

	query.Season = strings.TrimSpace(query.Season)
	if query.LeagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if query.SportID <= 0 {
		return nil, fmt.Errorf("%w: sport id is required", ErrInvalidInput)
	}
	if query.Week != nil && *query.Week <= 0 {
		return nil, fmt.Errorf("%w: week must be > 0", ErrInvalidInput)
	}
	if query.Season == "" {
		item, exists, err := s.sportRepo.GetByID(ctx, query.SportID)
		if err != nil {
			return nil, fmt.Errorf("get sport: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: sport=%d", ErrNotFound, query.SportID)
		}
		if item.CurrentSeason == "" {
			return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
		}
		query.Season = item.CurrentSeason
	}

	items, err := s.standingRepo.ListTotals(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	standing.SortTotals(items)
	return items, nil
}

// RecalculateSportWeek recomputes every league with the sport active. Each
// league runs in its own transaction; leagues without final games are
// reported as skipped.
func (s *StandingsService) RecalculateSportWeek(ctx context.Context, sportID int64, season string, week int) (RecalculateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RecalculateSportWeek")
	defer span.End()

	season = strings.TrimSpace(season)
	if sportID <= 0 || season == "" || week <= 0 {
		return RecalculateResult{}, fmt.Errorf("%w: sport id, season and week are required", ErrInvalidInput)
	}

	leagues, err := s.leagueRepo.ListBySport(ctx, sportID)
	if err != nil {
		return RecalculateResult{}, fmt.Errorf("list leagues by sport: %w", err)
	}

	result := RecalculateResult{SportID: sportID, Season: season, Week: week}
	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(s.cfg.MaxWorkers).WithContext(ctx)
	for _, lg := range leagues {
		p.Go(func(ctx context.Context) error {
			computed, err := s.Calculate(ctx, standing.Scope{LeagueID: lg.ID, SportID: sportID, Season: season, Week: week})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Computed = append(result.Computed, computed)
			case errors.Is(err, ErrNothingToScore):
				result.Skipped = append(result.Skipped, lg.ID)
			default:
				s.logger.WarnContext(ctx, "recalculate league standings failed", "league_id", lg.ID, "sport_id", sportID, "error", err)
				result.Failed = append(result.Failed, RecalculateFailed{LeagueID: lg.ID, Error: err.Error()})
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return RecalculateResult{}, err
	}

	sort.Slice(result.Computed, func(i, j int) bool { return result.Computed[i].LeagueID < result.Computed[j].LeagueID })
	sort.Slice(result.Skipped, func(i, j int) bool { return result.Skipped[i] < result.Skipped[j] })
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].LeagueID < result.Failed[j].LeagueID })
	return result, nil
}

// RecalculateCurrentWeeks runs RecalculateSportWeek for each sport's stored week.
func (s *StandingsService) RecalculateCurrentWeeks(ctx context.Context) ([]RecalculateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RecalculateCurrentWeeks")
	defer span.End()

	sports, err := s.sportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}

	out := make([]RecalculateResult, 0, len(sports))
	for _, item := range sports {
		if !item.HasCurrentWeek() {
			continue
		}
		res, err := s.RecalculateSportWeek(ctx, item.ID, item.CurrentSeason, item.CurrentWeek)
		if err != nil {
			return out, fmt.Errorf("recalculate sport=%d: %w", item.ID, err)
		}
		out = append(out, res)
	}
	return out, nil
}
