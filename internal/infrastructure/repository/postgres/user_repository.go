package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type userTableModel struct {
	ID          int64  `db:"id"`
	Username    string `db:"username"`
	Email       string `db:"email"`
	DisplayName string `db:"display_name"`
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (user.User, bool, error) {
	query, args, err := qb.Select(qb.Columns(userTableModel{}, "")...).From("users").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by id query: %w", err)
	}

	var row userTableModel
	if err := execerFrom(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by id: %w", err)
	}

	return user.User{
		ID:          row.ID,
		Username:    strings.TrimSpace(row.Username),
		Email:       strings.TrimSpace(row.Email),
		DisplayName: strings.TrimSpace(row.DisplayName),
	}, true, nil
}
