package postgres

import "time"

type pickTableModel struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	GameID     int64     `db:"game_id"`
	LeagueID   int64     `db:"league_id"`
	PickedTeam string    `db:"picked_team"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type pickInsertModel struct {
	UserID     int64     `db:"user_id"`
	GameID     int64     `db:"game_id"`
	LeagueID   int64     `db:"league_id"`
	PickedTeam string    `db:"picked_team"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// staleGameRow is a game row joined with the pick that went stale on it.
type staleGameRow struct {
	gameTableModel
	PickLeagueID  int64     `db:"pick_league_id"`
	LeagueName    string    `db:"league_name"`
	PickedTeam    string    `db:"picked_team"`
	PickUpdatedAt time.Time `db:"pick_updated_at"`
}
