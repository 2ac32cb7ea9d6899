package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	basecache "github.com/riskibarqy/pickem-league/internal/platform/cache"
)

// LeagueRepository caches league reads. League rows and memberships are
// managed outside this service, so entries only ever age out.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	key := "league:id:" + strconv.FormatInt(leagueID, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedLeagueByID, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return cachedLeagueByID{}, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) GetMember(ctx context.Context, leagueID, userID int64) (league.Member, bool, error) {
	key := "league:member:" + strconv.FormatInt(leagueID, 10) + ":" + strconv.FormatInt(userID, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedMember, error) {
		item, exists, err := r.next.GetMember(ctx, leagueID, userID)
		if err != nil {
			return cachedMember{}, err
		}
		return cachedMember{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.Member{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID int64) ([]league.Member, error) {
	return r.next.ListMembers(ctx, leagueID)
}

func (r *LeagueRepository) ListBySport(ctx context.Context, sportID int64) ([]league.League, error) {
	return r.next.ListBySport(ctx, sportID)
}

func (r *LeagueRepository) ListMemberIDsBySport(ctx context.Context, sportID int64) ([]int64, error) {
	return r.next.ListMemberIDsBySport(ctx, sportID)
}

func (r *LeagueRepository) ListActiveSportsForUser(ctx context.Context, userID int64) ([]league.ActiveSport, error) {
	return r.next.ListActiveSportsForUser(ctx, userID)
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

type cachedMember struct {
	value  league.Member
	exists bool
}

// StandingRepository caches aggregated totals per league. Any upsert for a
// league drops that league's entries.
type StandingRepository struct {
	next  standing.Repository
	cache *basecache.Store
}

func NewStandingRepository(next standing.Repository, cache *basecache.Store) *StandingRepository {
	return &StandingRepository{next: next, cache: cache}
}

func (r *StandingRepository) Upsert(ctx context.Context, rows []standing.Row) error {
	if err := r.next.Upsert(ctx, rows); err != nil {
		return err
	}
	seen := make(map[int64]struct{}, 1)
	for _, row := range rows {
		if _, ok := seen[row.LeagueID]; ok {
			continue
		}
		seen[row.LeagueID] = struct{}{}
		r.cache.DeletePrefix(ctx, standingsPrefix(row.LeagueID))
	}
	return nil
}

func (r *StandingRepository) ListByScope(ctx context.Context, scope standing.Scope) ([]standing.Row, error) {
	return r.next.ListByScope(ctx, scope)
}

func (r *StandingRepository) ListTotals(ctx context.Context, q standing.Query) ([]standing.Total, error) {
	week := "all"
	if q.Week != nil {
		week = strconv.Itoa(*q.Week)
	}
	key := standingsPrefix(q.LeagueID) + strings.Join([]string{
		strconv.FormatInt(q.SportID, 10),
		strings.TrimSpace(q.Season),
		week,
	}, ":")

	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]standing.Total, error) {
		items, err := r.next.ListTotals(ctx, q)
		if err != nil {
			return nil, err
		}
		return append([]standing.Total(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]standing.Total(nil), items...), nil
}

func standingsPrefix(leagueID int64) string {
	return "standing:totals:" + strconv.FormatInt(leagueID, 10) + ":"
}
