package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) List(ctx context.Context, filter pick.Filter) ([]pick.Pick, error) {
	conds := make([]qb.Condition, 0, 3)
	if filter.UserID > 0 {
		conds = append(conds, qb.Eq("user_id", filter.UserID))
	}
	if filter.LeagueID > 0 {
		conds = append(conds, qb.Eq("league_id", filter.LeagueID))
	}
	if filter.GameIDs != nil {
		conds = append(conds, qb.In("game_id", int64sToAny(filter.GameIDs)))
	}

	query, args, err := qb.Select(qb.Columns(pickTableModel{}, "")...).From("picks").
		Where(conds...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks query: %w", err)
	}

	var rows []pickTableModel
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}
	return out, nil
}

func (r *PickRepository) ListPickerIDs(ctx context.Context, gameID int64) ([]int64, error) {
	query, args, err := qb.Select("DISTINCT user_id").From("picks").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picker ids query: %w", err)
	}

	var ids []int64
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select picker ids game=%d: %w", gameID, err)
	}
	return ids, nil
}

// staleGamesQuery selects future picked games edited after the pick itself.
func staleGamesQuery(userID int64, now time.Time) (string, []any, error) {
	columns := append(qb.Columns(gameTableModel{}, "g"),
		"p.league_id AS pick_league_id",
		"l.name AS league_name",
		"p.picked_team",
		"p.updated_at AS pick_updated_at",
	)
	return qb.Select(columns...).From("picks p").
		Join("games g ON g.id = p.game_id").
		Join("leagues l ON l.id = p.league_id").
		Where(
			qb.Eq("p.user_id", userID),
			qb.Gt("g.kickoff_at", now.UTC()),
			qb.Expr("g.last_modified > p.updated_at"),
		).
		OrderBy("g.kickoff_at", "g.id", "p.league_id").
		ToSQL()
}

func (r *PickRepository) ListStale(ctx context.Context, userID int64, now time.Time) ([]pick.StaleGame, error) {
	query, args, err := staleGamesQuery(userID, now)
	if err != nil {
		return nil, fmt.Errorf("build select stale picks query: %w", err)
	}

	var rows []staleGameRow
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stale picks user=%d: %w", userID, err)
	}

	out := make([]pick.StaleGame, 0, len(rows))
	for _, row := range rows {
		out = append(out, pick.StaleGame{
			Game:          gameFromRow(row.gameTableModel),
			LeagueID:      row.PickLeagueID,
			LeagueName:    strings.TrimSpace(row.LeagueName),
			PickedTeam:    strings.TrimSpace(row.PickedTeam),
			PickUpdatedAt: row.PickUpdatedAt.UTC(),
		})
	}
	return out, nil
}

// Upsert keeps the original created_at on conflict.
func (r *PickRepository) Upsert(ctx context.Context, p pick.Pick) (pick.Pick, error) {
	model := pickInsertModel{
		UserID:     p.UserID,
		GameID:     p.GameID,
		LeagueID:   p.LeagueID,
		PickedTeam: p.PickedTeam,
		CreatedAt:  p.CreatedAt.UTC(),
		UpdatedAt:  p.UpdatedAt.UTC(),
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = model.UpdatedAt
	}

	query, args, err := qb.InsertModel("picks", model, `ON CONFLICT (user_id, game_id, league_id)
DO UPDATE SET
    picked_team = EXCLUDED.picked_team,
    updated_at = EXCLUDED.updated_at
RETURNING id, created_at`)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("build upsert pick query: %w", err)
	}

	if err := execerFrom(ctx, r.db).QueryRowxContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return pick.Pick{}, fmt.Errorf("upsert pick user=%d game=%d league=%d: %w", p.UserID, p.GameID, p.LeagueID, err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = model.UpdatedAt
	return p, nil
}

func pickFromRow(row pickTableModel) pick.Pick {
	return pick.Pick{
		ID:         row.ID,
		UserID:     row.UserID,
		GameID:     row.GameID,
		LeagueID:   row.LeagueID,
		PickedTeam: strings.TrimSpace(row.PickedTeam),
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}
