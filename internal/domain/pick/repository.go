package pick

import (
	"context"
	"time"
)

type Filter struct {
	UserID   int64
	LeagueID int64
	GameIDs  []int64
}

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Pick, error)
	// ListPickerIDs returns users holding any pick on the game.
	ListPickerIDs(ctx context.Context, gameID int64) ([]int64, error)
	// ListStale returns the user's picks on games kicking off after now whose
	// last_modified is later than the pick's updated_at.
	ListStale(ctx context.Context, userID int64, now time.Time) ([]StaleGame, error)
	Upsert(ctx context.Context, p Pick) (Pick, error)
}
