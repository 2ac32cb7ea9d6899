package sport

import "context"

type Repository interface {
	List(ctx context.Context) ([]Sport, error)
	GetByID(ctx context.Context, id int64) (Sport, bool, error)
	UpdateCurrentWeek(ctx context.Context, id int64, season string, week int) error
}
