package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	ID           int64           `db:"id"`
	SportID      int64           `db:"sport_id"`
	ExternalID   string          `db:"external_id"`
	HomeTeam     string          `db:"home_team"`
	AwayTeam     string          `db:"away_team"`
	HomeScore    int             `db:"home_score"`
	AwayScore    int             `db:"away_score"`
	Spread       sql.NullFloat64 `db:"spread"`
	Favorite     string          `db:"favorite"`
	KickoffAt    time.Time       `db:"kickoff_at"`
	Venue        string          `db:"venue"`
	Season       string          `db:"season"`
	Week         int             `db:"week"`
	Status       string          `db:"status"`
	LastModified time.Time       `db:"last_modified"`
}

type gameInsertModel struct {
	SportID      int64           `db:"sport_id"`
	ExternalID   string          `db:"external_id"`
	HomeTeam     string          `db:"home_team"`
	AwayTeam     string          `db:"away_team"`
	HomeScore    int             `db:"home_score"`
	AwayScore    int             `db:"away_score"`
	Spread       sql.NullFloat64 `db:"spread"`
	Favorite     string          `db:"favorite"`
	KickoffAt    time.Time       `db:"kickoff_at"`
	Venue        string          `db:"venue"`
	Season       string          `db:"season"`
	Week         int             `db:"week"`
	Status       string          `db:"status"`
	LastModified time.Time       `db:"last_modified"`
}
