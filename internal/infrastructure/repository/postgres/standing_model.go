package postgres

import "time"

type standingTableModel struct {
	LeagueID  int64     `db:"league_id"`
	UserID    int64     `db:"user_id"`
	SportID   int64     `db:"sport_id"`
	Season    string    `db:"season"`
	Week      int       `db:"week"`
	Wins      int       `db:"wins"`
	Losses    int       `db:"losses"`
	Ties      int       `db:"ties"`
	Points    float64   `db:"points"`
	UpdatedAt time.Time `db:"updated_at"`
}

type standingTotalRow struct {
	UserID      int64   `db:"user_id"`
	Username    string  `db:"username"`
	DisplayName string  `db:"display_name"`
	Wins        int     `db:"wins"`
	Losses      int     `db:"losses"`
	Ties        int     `db:"ties"`
	Points      float64 `db:"points"`
}
