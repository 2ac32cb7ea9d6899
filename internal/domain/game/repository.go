package game

import (
	"context"
	"time"
)

// Filter narrows game listings. Zero values are ignored.
type Filter struct {
	SportID      int64
	Season       string
	Week         int
	Status       string
	KickoffAfter time.Time
	GameIDs      []int64
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (Game, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Game, bool, error)
	List(ctx context.Context, filter Filter) ([]Game, error)
	Insert(ctx context.Context, g Game) (Game, error)
	Update(ctx context.Context, g Game) error
	// EarliestKickoff returns the first kickoff strictly after `after` within
	// the sport's season/week, if any.
	EarliestKickoff(ctx context.Context, sportID int64, season string, week int, after time.Time) (time.Time, bool, error)
}
