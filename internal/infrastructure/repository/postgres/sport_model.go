package postgres

type sportTableModel struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	ExternalID    string `db:"external_id"`
	CurrentSeason string `db:"current_season"`
	CurrentWeek   int    `db:"current_week"`
}
