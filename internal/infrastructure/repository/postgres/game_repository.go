package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/game"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (game.Game, bool, error) {
	return r.getOne(ctx, "id", qb.Eq("id", id))
}

func (r *GameRepository) GetByExternalID(ctx context.Context, externalID string) (game.Game, bool, error) {
	return r.getOne(ctx, "external id", qb.Eq("external_id", strings.TrimSpace(externalID)))
}

func (r *GameRepository) getOne(ctx context.Context, label string, cond qb.Condition) (game.Game, bool, error) {
	query, args, err := qb.Select(qb.Columns(gameTableModel{}, "")...).From("games").
		Where(cond).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by %s query: %w", label, err)
	}

	var row gameTableModel
	if err := execerFrom(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by %s: %w", label, err)
	}
	return gameFromRow(row), true, nil
}

func (r *GameRepository) List(ctx context.Context, filter game.Filter) ([]game.Game, error) {
	query, args, err := qb.Select(qb.Columns(gameTableModel{}, "")...).From("games").
		Where(gameFilterConditions(filter)...).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) Insert(ctx context.Context, g game.Game) (game.Game, error) {
	model := gameInsertModel{
		SportID:      g.SportID,
		ExternalID:   g.ExternalID,
		HomeTeam:     g.HomeTeam,
		AwayTeam:     g.AwayTeam,
		HomeScore:    g.HomeScore,
		AwayScore:    g.AwayScore,
		Spread:       ptrToNullFloat64(g.Spread),
		Favorite:     g.Favorite,
		KickoffAt:    g.KickoffAt.UTC(),
		Venue:        g.Venue,
		Season:       g.Season,
		Week:         g.Week,
		Status:       g.Status,
		LastModified: g.LastModified.UTC(),
	}
	query, args, err := qb.InsertModel("games", model, "RETURNING id")
	if err != nil {
		return game.Game{}, fmt.Errorf("build insert game query: %w", err)
	}

	if err := execerFrom(ctx, r.db).QueryRowxContext(ctx, query, args...).Scan(&g.ID); err != nil {
		return game.Game{}, fmt.Errorf("insert game external_id=%s: %w", g.ExternalID, err)
	}
	return g, nil
}

func (r *GameRepository) Update(ctx context.Context, g game.Game) error {
	query, args, err := qb.Update("games").
		Set("home_team", g.HomeTeam).
		Set("away_team", g.AwayTeam).
		Set("home_score", g.HomeScore).
		Set("away_score", g.AwayScore).
		Set("spread", ptrToNullFloat64(g.Spread)).
		Set("favorite", g.Favorite).
		Set("kickoff_at", g.KickoffAt.UTC()).
		Set("venue", g.Venue).
		Set("season", g.Season).
		Set("week", g.Week).
		Set("status", g.Status).
		Set("last_modified", g.LastModified.UTC()).
		Where(qb.Eq("id", g.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}

	if _, err := execerFrom(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game id=%d: %w", g.ID, err)
	}
	return nil
}

func (r *GameRepository) EarliestKickoff(ctx context.Context, sportID int64, season string, week int, after time.Time) (time.Time, bool, error) {
	query, args, err := qb.Select("MIN(kickoff_at)").From("games").
		Where(
			qb.Eq("sport_id", sportID),
			qb.Eq("season", season),
			qb.Eq("week", week),
			qb.Gt("kickoff_at", after.UTC()),
		).
		ToSQL()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build earliest kickoff query: %w", err)
	}

	var earliest sql.NullTime
	if err := execerFrom(ctx, r.db).GetContext(ctx, &earliest, query, args...); err != nil {
		return time.Time{}, false, fmt.Errorf("get earliest kickoff sport=%d: %w", sportID, err)
	}
	if !earliest.Valid {
		return time.Time{}, false, nil
	}
	return earliest.Time.UTC(), true, nil
}

func gameFilterConditions(filter game.Filter) []qb.Condition {
	conds := make([]qb.Condition, 0, 6)
	if filter.SportID > 0 {
		conds = append(conds, qb.Eq("sport_id", filter.SportID))
	}
	if season := strings.TrimSpace(filter.Season); season != "" {
		conds = append(conds, qb.Eq("season", season))
	}
	if filter.Week > 0 {
		conds = append(conds, qb.Eq("week", filter.Week))
	}
	if filter.Status != "" {
		conds = append(conds, qb.Eq("status", filter.Status))
	}
	if !filter.KickoffAfter.IsZero() {
		conds = append(conds, qb.Gt("kickoff_at", filter.KickoffAfter.UTC()))
	}
	if filter.GameIDs != nil {
		conds = append(conds, qb.In("id", int64sToAny(filter.GameIDs)))
	}
	return conds
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:           row.ID,
		SportID:      row.SportID,
		ExternalID:   strings.TrimSpace(row.ExternalID),
		HomeTeam:     strings.TrimSpace(row.HomeTeam),
		AwayTeam:     strings.TrimSpace(row.AwayTeam),
		HomeScore:    row.HomeScore,
		AwayScore:    row.AwayScore,
		Spread:       nullFloat64ToPtr(row.Spread),
		Favorite:     strings.TrimSpace(row.Favorite),
		KickoffAt:    row.KickoffAt.UTC(),
		Venue:        strings.TrimSpace(row.Venue),
		Season:       strings.TrimSpace(row.Season),
		Week:         row.Week,
		Status:       strings.TrimSpace(row.Status),
		LastModified: row.LastModified.UTC(),
	}
}
