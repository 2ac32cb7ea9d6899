package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/pick"
)

type PickRepository struct {
	store *Store
}

func NewPickRepository(store *Store) *PickRepository {
	return &PickRepository{store: store}
}

func (r *PickRepository) List(_ context.Context, filter pick.Filter) ([]pick.Pick, error) {
	out := make([]pick.Pick, 0)
	r.store.read(func(t *tables) {
		for _, p := range t.picks {
			switch {
			case filter.UserID > 0 && p.UserID != filter.UserID:
				continue
			case filter.LeagueID > 0 && p.LeagueID != filter.LeagueID:
				continue
			case filter.GameIDs != nil && !slices.Contains(filter.GameIDs, p.GameID):
				continue
			}
			out = append(out, p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PickRepository) ListPickerIDs(_ context.Context, gameID int64) ([]int64, error) {
	seen := make(map[int64]struct{})
	out := make([]int64, 0)
	r.store.read(func(t *tables) {
		for _, p := range t.picks {
			if p.GameID != gameID {
				continue
			}
			if _, dup := seen[p.UserID]; dup {
				continue
			}
			seen[p.UserID] = struct{}{}
			out = append(out, p.UserID)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *PickRepository) ListStale(_ context.Context, userID int64, now time.Time) ([]pick.StaleGame, error) {
	out := make([]pick.StaleGame, 0)
	r.store.read(func(t *tables) {
		for _, p := range t.picks {
			if p.UserID != userID {
				continue
			}
			g, ok := t.games[p.GameID]
			if !ok || !g.KickoffAt.After(now) || !g.LastModified.After(p.UpdatedAt) {
				continue
			}
			out = append(out, pick.StaleGame{
				Game:          g,
				LeagueID:      p.LeagueID,
				LeagueName:    t.leagues[p.LeagueID].Name,
				PickedTeam:    p.PickedTeam,
				PickUpdatedAt: p.UpdatedAt,
			})
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Game.KickoffAt.Equal(out[j].Game.KickoffAt) {
			return out[i].Game.KickoffAt.Before(out[j].Game.KickoffAt)
		}
		if out[i].Game.ID != out[j].Game.ID {
			return out[i].Game.ID < out[j].Game.ID
		}
		return out[i].LeagueID < out[j].LeagueID
	})
	return out, nil
}

func (r *PickRepository) Upsert(_ context.Context, p pick.Pick) (pick.Pick, error) {
	var saved pick.Pick
	r.store.write(func(t *tables) {
		for id, existing := range t.picks {
			if existing.UserID == p.UserID && existing.GameID == p.GameID && existing.LeagueID == p.LeagueID {
				existing.PickedTeam = p.PickedTeam
				existing.UpdatedAt = p.UpdatedAt
				t.picks[id] = existing
				saved = existing
				return
			}
		}
		t.nextPickID++
		p.ID = t.nextPickID
		t.picks[p.ID] = p
		saved = p
	})
	return saved, nil
}
