package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type SportRepository struct {
	db *sqlx.DB
}

func NewSportRepository(db *sqlx.DB) *SportRepository {
	return &SportRepository{db: db}
}

func (r *SportRepository) List(ctx context.Context) ([]sport.Sport, error) {
	query, args, err := qb.Select(qb.Columns(sportTableModel{}, "")...).From("sports").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sports query: %w", err)
	}

	var rows []sportTableModel
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sports: %w", err)
	}

	out := make([]sport.Sport, 0, len(rows))
	for _, row := range rows {
		out = append(out, sportFromRow(row))
	}
	return out, nil
}

func (r *SportRepository) GetByID(ctx context.Context, id int64) (sport.Sport, bool, error) {
	query, args, err := qb.Select(qb.Columns(sportTableModel{}, "")...).From("sports").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return sport.Sport{}, false, fmt.Errorf("build get sport by id query: %w", err)
	}

	var row sportTableModel
	if err := execerFrom(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return sport.Sport{}, false, nil
		}
		return sport.Sport{}, false, fmt.Errorf("get sport by id: %w", err)
	}
	return sportFromRow(row), true, nil
}

func (r *SportRepository) UpdateCurrentWeek(ctx context.Context, id int64, season string, week int) error {
	query, args, err := qb.Update("sports").
		Set("current_season", strings.TrimSpace(season)).
		Set("current_week", week).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update sport current week query: %w", err)
	}

	res, err := execerFrom(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sport current week id=%d: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update sport current week id=%d: no rows updated", id)
	}
	return nil
}

func sportFromRow(row sportTableModel) sport.Sport {
	return sport.Sport{
		ID:            row.ID,
		Name:          strings.TrimSpace(row.Name),
		ExternalID:    strings.TrimSpace(row.ExternalID),
		CurrentSeason: strings.TrimSpace(row.CurrentSeason),
		CurrentWeek:   row.CurrentWeek,
	}
}
