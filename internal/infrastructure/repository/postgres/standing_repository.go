package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) Upsert(ctx context.Context, rows []standing.Row) error {
	exec := execerFrom(ctx, r.db)
	for _, item := range rows {
		model := standingTableModel{
			LeagueID:  item.LeagueID,
			UserID:    item.UserID,
			SportID:   item.SportID,
			Season:    item.Season,
			Week:      item.Week,
			Wins:      item.Wins,
			Losses:    item.Losses,
			Ties:      item.Ties,
			Points:    item.Points,
			UpdatedAt: item.UpdatedAt.UTC(),
		}
		query, args, err := qb.InsertModel("league_standings", model, `ON CONFLICT (league_id, user_id, sport_id, season, week)
DO UPDATE SET
    wins = EXCLUDED.wins,
    losses = EXCLUDED.losses,
    ties = EXCLUDED.ties,
    points = EXCLUDED.points,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert standing query: %w", err)
		}
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert standing %s user=%d: %w", item.Scope, item.UserID, err)
		}
	}
	return nil
}

func (r *StandingRepository) ListByScope(ctx context.Context, scope standing.Scope) ([]standing.Row, error) {
	query, args, err := qb.Select(qb.Columns(standingTableModel{}, "")...).From("league_standings").
		Where(
			qb.Eq("league_id", scope.LeagueID),
			qb.Eq("sport_id", scope.SportID),
			qb.Eq("season", scope.Season),
			qb.Eq("week", scope.Week),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings by scope query: %w", err)
	}

	var rows []standingTableModel
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings %s: %w", scope, err)
	}

	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Row{
			Scope: standing.Scope{
				LeagueID: row.LeagueID,
				SportID:  row.SportID,
				Season:   strings.TrimSpace(row.Season),
				Week:     row.Week,
			},
			UserID:    row.UserID,
			Wins:      row.Wins,
			Losses:    row.Losses,
			Ties:      row.Ties,
			Points:    row.Points,
			UpdatedAt: row.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

// standingTotalsQuery sums weekly rows per user; a nil week spans the season.
func standingTotalsQuery(q standing.Query) (string, []any, error) {
	conds := []qb.Condition{
		qb.Eq("s.league_id", q.LeagueID),
		qb.Eq("s.sport_id", q.SportID),
		qb.Eq("s.season", strings.TrimSpace(q.Season)),
	}
	if q.Week != nil {
		conds = append(conds, qb.Eq("s.week", *q.Week))
	}

	return qb.Select(
		"s.user_id",
		"u.username",
		"u.display_name",
		"COALESCE(SUM(s.wins), 0) AS wins",
		"COALESCE(SUM(s.losses), 0) AS losses",
		"COALESCE(SUM(s.ties), 0) AS ties",
		"COALESCE(SUM(s.points), 0) AS points",
	).From("league_standings s").
		Join("users u ON u.id = s.user_id").
		Where(conds...).
		GroupBy("s.user_id", "u.username", "u.display_name").
		OrderBy("points DESC", "wins DESC", "s.user_id").
		ToSQL()
}

func (r *StandingRepository) ListTotals(ctx context.Context, q standing.Query) ([]standing.Total, error) {
	query, args, err := standingTotalsQuery(q)
	if err != nil {
		return nil, fmt.Errorf("build select standing totals query: %w", err)
	}

	var rows []standingTotalRow
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standing totals league=%d: %w", q.LeagueID, err)
	}

	out := make([]standing.Total, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Total{
			UserID:      row.UserID,
			Username:    strings.TrimSpace(row.Username),
			DisplayName: strings.TrimSpace(row.DisplayName),
			Wins:        row.Wins,
			Losses:      row.Losses,
			Ties:        row.Ties,
			Points:      row.Points,
		})
	}
	return out, nil
}
