package postgres

type leagueTableModel struct {
	ID                int64  `db:"id"`
	Name              string `db:"name"`
	TiebreakerEnabled bool   `db:"tiebreaker_enabled"`
	CreatedBy         int64  `db:"created_by"`
}

type leagueMemberTableModel struct {
	LeagueID int64 `db:"league_id"`
	UserID   int64 `db:"user_id"`
	IsAdmin  bool  `db:"is_admin"`
}

type activeSportRow struct {
	LeagueID      int64  `db:"league_id"`
	LeagueName    string `db:"league_name"`
	SportID       int64  `db:"sport_id"`
	SportName     string `db:"sport_name"`
	ExternalID    string `db:"external_id"`
	CurrentSeason string `db:"current_season"`
	CurrentWeek   int    `db:"current_week"`
}
