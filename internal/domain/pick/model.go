package pick

import (
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
)

// Pick is one user's chosen winner for a game inside a league.
// (UserID, GameID, LeagueID) is unique.
type Pick struct {
	ID         int64
	UserID     int64
	GameID     int64
	LeagueID   int64
	PickedTeam string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StaleGame is a picked game edited after the pick was last touched.
type StaleGame struct {
	Game          game.Game
	LeagueID      int64
	LeagueName    string
	PickedTeam    string
	PickUpdatedAt time.Time
}

// Outstanding is a current-week game in one of the user's leagues with no pick yet.
type Outstanding struct {
	LeagueID   int64
	LeagueName string
	SportName  string
	Game       game.Game
}
