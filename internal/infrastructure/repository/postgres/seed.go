package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the default sports into an empty database. Users
// and leagues are owned by the account system and are never seeded here.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM sports`); err != nil {
		return fmt.Errorf("count sports for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, s := range memory.DefaultSeed().Sports {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO sports (name, external_id)
VALUES (:name, :external_id)
ON CONFLICT (external_id) DO NOTHING`, map[string]any{
			"name":        s.Name,
			"external_id": s.ExternalID,
		})
		if err != nil {
			return fmt.Errorf("bind seed sport %s query: %w", s.ExternalID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed sport %s: %w", s.ExternalID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
