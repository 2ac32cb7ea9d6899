package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
)

type GameRepository struct {
	store *Store
}

func NewGameRepository(store *Store) *GameRepository {
	return &GameRepository{store: store}
}

func (r *GameRepository) GetByID(_ context.Context, id int64) (game.Game, bool, error) {
	var (
		item game.Game
		ok   bool
	)
	r.store.read(func(t *tables) {
		item, ok = t.games[id]
	})
	return item, ok, nil
}

func (r *GameRepository) GetByExternalID(_ context.Context, externalID string) (game.Game, bool, error) {
	var (
		item game.Game
		ok   bool
	)
	r.store.read(func(t *tables) {
		for _, g := range t.games {
			if g.ExternalID == externalID {
				item, ok = g, true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *GameRepository) List(_ context.Context, filter game.Filter) ([]game.Game, error) {
	out := make([]game.Game, 0)
	r.store.read(func(t *tables) {
		for _, g := range t.games {
			if matchGame(g, filter) {
				out = append(out, g)
			}
		}
	})
	sortGames(out)
	return out, nil
}

func (r *GameRepository) Insert(_ context.Context, g game.Game) (game.Game, error) {
	var err error
	r.store.write(func(t *tables) {
		for _, existing := range t.games {
			if existing.ExternalID == g.ExternalID {
				err = fmt.Errorf("game external_id=%s already exists", g.ExternalID)
				return
			}
		}
		t.nextGameID++
		g.ID = t.nextGameID
		t.games[g.ID] = g
	})
	if err != nil {
		return game.Game{}, err
	}
	return g, nil
}

func (r *GameRepository) Update(_ context.Context, g game.Game) error {
	var err error
	r.store.write(func(t *tables) {
		if _, ok := t.games[g.ID]; !ok {
			err = fmt.Errorf("game id=%d not found", g.ID)
			return
		}
		t.games[g.ID] = g
	})
	return err
}

func (r *GameRepository) EarliestKickoff(_ context.Context, sportID int64, season string, week int, after time.Time) (time.Time, bool, error) {
	var (
		earliest time.Time
		ok       bool
	)
	r.store.read(func(t *tables) {
		for _, g := range t.games {
			if g.SportID != sportID || g.Season != season || g.Week != week || !g.KickoffAt.After(after) {
				continue
			}
			if !ok || g.KickoffAt.Before(earliest) {
				earliest, ok = g.KickoffAt, true
			}
		}
	})
	return earliest, ok, nil
}

func matchGame(g game.Game, filter game.Filter) bool {
	switch {
	case filter.SportID > 0 && g.SportID != filter.SportID:
		return false
	case filter.Season != "" && g.Season != filter.Season:
		return false
	case filter.Week > 0 && g.Week != filter.Week:
		return false
	case filter.Status != "" && g.Status != filter.Status:
		return false
	case !filter.KickoffAfter.IsZero() && !g.KickoffAt.After(filter.KickoffAfter):
		return false
	case filter.GameIDs != nil && !slices.Contains(filter.GameIDs, g.ID):
		return false
	}
	return true
}

func sortGames(items []game.Game) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})
}
