package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (User, bool, error)
}
