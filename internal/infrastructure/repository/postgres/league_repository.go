package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

var leagueColumns = []string{
	"l.id",
	"l.name",
	"l.tiebreaker_enabled",
	"COALESCE(l.created_by, 0) AS created_by",
}

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	query, args, err := qb.Select(leagueColumns...).From("leagues l").
		Where(qb.Eq("l.id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := execerFrom(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}
	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) GetMember(ctx context.Context, leagueID, userID int64) (league.Member, bool, error) {
	query, args, err := qb.Select(qb.Columns(leagueMemberTableModel{}, "")...).From("league_members").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return league.Member{}, false, fmt.Errorf("build get league member query: %w", err)
	}

	var row leagueMemberTableModel
	if err := execerFrom(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Member{}, false, nil
		}
		return league.Member{}, false, fmt.Errorf("get league member: %w", err)
	}
	return league.Member{LeagueID: row.LeagueID, UserID: row.UserID, IsAdmin: row.IsAdmin}, true, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID int64) ([]league.Member, error) {
	query, args, err := qb.Select(qb.Columns(leagueMemberTableModel{}, "")...).From("league_members").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select league members query: %w", err)
	}

	var rows []leagueMemberTableModel
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select league members: %w", err)
	}

	out := make([]league.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.Member{LeagueID: row.LeagueID, UserID: row.UserID, IsAdmin: row.IsAdmin})
	}
	return out, nil
}

func leaguesBySportQuery(sportID int64) (string, []any, error) {
	return qb.Select(leagueColumns...).From("leagues l").
		Join("league_sports ls ON ls.league_id = l.id").
		Where(
			qb.Eq("ls.sport_id", sportID),
			qb.Eq("ls.active", true),
		).
		OrderBy("l.id").
		ToSQL()
}

func (r *LeagueRepository) ListBySport(ctx context.Context, sportID int64) ([]league.League, error) {
	query, args, err := leaguesBySportQuery(sportID)
	if err != nil {
		return nil, fmt.Errorf("build select leagues by sport query: %w", err)
	}

	var rows []leagueTableModel
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues by sport: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}
	return out, nil
}

func memberIDsBySportQuery(sportID int64) (string, []any, error) {
	return qb.Select("DISTINCT lm.user_id").From("league_members lm").
		Join("league_sports ls ON ls.league_id = lm.league_id").
		Where(
			qb.Eq("ls.sport_id", sportID),
			qb.Eq("ls.active", true),
		).
		OrderBy("lm.user_id").
		ToSQL()
}

func (r *LeagueRepository) ListMemberIDsBySport(ctx context.Context, sportID int64) ([]int64, error) {
	query, args, err := memberIDsBySportQuery(sportID)
	if err != nil {
		return nil, fmt.Errorf("build select member ids by sport query: %w", err)
	}

	var ids []int64
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select member ids by sport: %w", err)
	}
	return ids, nil
}

func activeSportsForUserQuery(userID int64) (string, []any, error) {
	return qb.Select(
		"l.id AS league_id",
		"l.name AS league_name",
		"s.id AS sport_id",
		"s.name AS sport_name",
		"s.external_id",
		"s.current_season",
		"s.current_week",
	).From("league_members lm").
		Join("leagues l ON l.id = lm.league_id").
		Join("league_sports ls ON ls.league_id = lm.league_id").
		Join("sports s ON s.id = ls.sport_id").
		Where(
			qb.Eq("lm.user_id", userID),
			qb.Eq("ls.active", true),
		).
		OrderBy("l.id", "s.id").
		ToSQL()
}

func (r *LeagueRepository) ListActiveSportsForUser(ctx context.Context, userID int64) ([]league.ActiveSport, error) {
	query, args, err := activeSportsForUserQuery(userID)
	if err != nil {
		return nil, fmt.Errorf("build select active sports for user query: %w", err)
	}

	var rows []activeSportRow
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active sports for user: %w", err)
	}

	out := make([]league.ActiveSport, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.ActiveSport{
			LeagueID:   row.LeagueID,
			LeagueName: strings.TrimSpace(row.LeagueName),
			Sport: sport.Sport{
				ID:            row.SportID,
				Name:          strings.TrimSpace(row.SportName),
				ExternalID:    strings.TrimSpace(row.ExternalID),
				CurrentSeason: strings.TrimSpace(row.CurrentSeason),
				CurrentWeek:   row.CurrentWeek,
			},
		})
	}
	return out, nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:                row.ID,
		Name:              strings.TrimSpace(row.Name),
		TiebreakerEnabled: row.TiebreakerEnabled,
		CreatedBy:         row.CreatedBy,
	}
}
