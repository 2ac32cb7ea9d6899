package memory

import (
	"context"

	"github.com/riskibarqy/pickem-league/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	var (
		item user.User
		ok   bool
	)
	r.store.read(func(t *tables) {
		item, ok = t.users[id]
	})
	return item, ok, nil
}
