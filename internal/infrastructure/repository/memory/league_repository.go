package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/pickem-league/internal/domain/league"
)

type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	var (
		item league.League
		ok   bool
	)
	r.store.read(func(t *tables) {
		item, ok = t.leagues[leagueID]
	})
	return item, ok, nil
}

func (r *LeagueRepository) GetMember(_ context.Context, leagueID, userID int64) (league.Member, bool, error) {
	var (
		item league.Member
		ok   bool
	)
	r.store.read(func(t *tables) {
		for _, m := range t.members {
			if m.LeagueID == leagueID && m.UserID == userID {
				item, ok = m, true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID int64) ([]league.Member, error) {
	out := make([]league.Member, 0)
	r.store.read(func(t *tables) {
		for _, m := range t.members {
			if m.LeagueID == leagueID {
				out = append(out, m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *LeagueRepository) ListBySport(_ context.Context, sportID int64) ([]league.League, error) {
	out := make([]league.League, 0)
	r.store.read(func(t *tables) {
		for _, ls := range t.leagueSports {
			if ls.SportID != sportID || !ls.Active {
				continue
			}
			if item, ok := t.leagues[ls.LeagueID]; ok {
				out = append(out, item)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) ListMemberIDsBySport(_ context.Context, sportID int64) ([]int64, error) {
	seen := make(map[int64]struct{})
	out := make([]int64, 0)
	r.store.read(func(t *tables) {
		for _, ls := range t.leagueSports {
			if ls.SportID != sportID || !ls.Active {
				continue
			}
			for _, m := range t.members {
				if m.LeagueID != ls.LeagueID {
					continue
				}
				if _, dup := seen[m.UserID]; dup {
					continue
				}
				seen[m.UserID] = struct{}{}
				out = append(out, m.UserID)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *LeagueRepository) ListActiveSportsForUser(_ context.Context, userID int64) ([]league.ActiveSport, error) {
	out := make([]league.ActiveSport, 0)
	r.store.read(func(t *tables) {
		for _, m := range t.members {
			if m.UserID != userID {
				continue
			}
			lg, ok := t.leagues[m.LeagueID]
			if !ok {
				continue
			}
			for _, ls := range t.leagueSports {
				if ls.LeagueID != m.LeagueID || !ls.Active {
					continue
				}
				if item, ok := t.sports[ls.SportID]; ok {
					out = append(out, league.ActiveSport{LeagueID: lg.ID, LeagueName: lg.Name, Sport: item})
				}
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].LeagueID != out[j].LeagueID {
			return out[i].LeagueID < out[j].LeagueID
		}
		return out[i].Sport.ID < out[j].Sport.ID
	})
	return out, nil
}
