package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/pickem-league/internal/domain/sport"
)

type SportRepository struct {
	store *Store
}

func NewSportRepository(store *Store) *SportRepository {
	return &SportRepository{store: store}
}

func (r *SportRepository) List(_ context.Context) ([]sport.Sport, error) {
	out := make([]sport.Sport, 0)
	r.store.read(func(t *tables) {
		for _, item := range t.sports {
			out = append(out, item)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SportRepository) GetByID(_ context.Context, id int64) (sport.Sport, bool, error) {
	var (
		item sport.Sport
		ok   bool
	)
	r.store.read(func(t *tables) {
		item, ok = t.sports[id]
	})
	return item, ok, nil
}

func (r *SportRepository) UpdateCurrentWeek(_ context.Context, id int64, season string, week int) error {
	var err error
	r.store.write(func(t *tables) {
		item, ok := t.sports[id]
		if !ok {
			err = fmt.Errorf("sport id=%d not found", id)
			return
		}
		item.CurrentSeason = season
		item.CurrentWeek = week
		t.sports[id] = item
	})
	return err
}
