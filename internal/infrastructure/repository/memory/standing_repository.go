package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/pickem-league/internal/domain/standing"
)

type StandingRepository struct {
	store *Store
}

func NewStandingRepository(store *Store) *StandingRepository {
	return &StandingRepository{store: store}
}

func (r *StandingRepository) Upsert(_ context.Context, rows []standing.Row) error {
	r.store.write(func(t *tables) {
		for _, row := range rows {
			t.standings[keyOf(row)] = row
		}
	})
	return nil
}

func (r *StandingRepository) ListByScope(_ context.Context, scope standing.Scope) ([]standing.Row, error) {
	out := make([]standing.Row, 0)
	r.store.read(func(t *tables) {
		for _, row := range t.standings {
			if row.Scope == scope {
				out = append(out, row)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *StandingRepository) ListTotals(_ context.Context, query standing.Query) ([]standing.Total, error) {
	byUser := make(map[int64]*standing.Total)
	r.store.read(func(t *tables) {
		for _, row := range t.standings {
			if row.LeagueID != query.LeagueID || row.SportID != query.SportID || row.Season != query.Season {
				continue
			}
			if query.Week != nil && row.Week != *query.Week {
				continue
			}
			total, ok := byUser[row.UserID]
			if !ok {
				u := t.users[row.UserID]
				total = &standing.Total{UserID: row.UserID, Username: u.Username, DisplayName: u.DisplayName}
				byUser[row.UserID] = total
			}
			total.Wins += row.Wins
			total.Losses += row.Losses
			total.Ties += row.Ties
			total.Points += row.Points
		}
	})

	out := make([]standing.Total, 0, len(byUser))
	for _, total := range byUser {
		out = append(out, *total)
	}
	standing.SortTotals(out)
	return out, nil
}

func keyOf(row standing.Row) standingKey {
	return standingKey{
		LeagueID: row.LeagueID,
		UserID:   row.UserID,
		SportID:  row.SportID,
		Season:   row.Season,
		Week:     row.Week,
	}
}
