package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/notification"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, req notification.Request) (notification.Request, error) {
	model := notificationInsertModel{
		UserID:       req.UserID,
		Type:         string(req.Type),
		Processed:    req.Processed,
		ScheduledFor: req.ScheduledFor.UTC(),
		CreatedAt:    req.CreatedAt.UTC(),
	}
	query, args, err := qb.InsertModel("notification_requests", model, "RETURNING id")
	if err != nil {
		return notification.Request{}, fmt.Errorf("build insert notification query: %w", err)
	}

	if err := execerFrom(ctx, r.db).QueryRowxContext(ctx, query, args...).Scan(&req.ID); err != nil {
		return notification.Request{}, fmt.Errorf("insert notification user=%d type=%s: %w", req.UserID, req.Type, err)
	}
	return req, nil
}

func (r *NotificationRepository) ExistsInWindow(ctx context.Context, userID int64, typ notification.Type, from, to time.Time) (bool, error) {
	query, args, err := notificationInWindowQuery(userID, typ, from, to)
	if err != nil {
		return false, fmt.Errorf("build notification window exists query: %w", err)
	}
	return r.exists(ctx, "window", query, args)
}

func (r *NotificationRepository) HasPendingSince(ctx context.Context, userID int64, typ notification.Type, since time.Time) (bool, error) {
	query, args, err := pendingNotificationSinceQuery(userID, typ, since)
	if err != nil {
		return false, fmt.Errorf("build notification pending exists query: %w", err)
	}
	return r.exists(ctx, "pending", query, args)
}

// notificationInWindowQuery matches processed and unprocessed requests alike;
// both window ends are inclusive.
func notificationInWindowQuery(userID int64, typ notification.Type, from, to time.Time) (string, []any, error) {
	return existsQuery(
		qb.Eq("user_id", userID),
		qb.Eq("notification_type", string(typ)),
		qb.Between("scheduled_for", from.UTC(), to.UTC()),
	)
}

func pendingNotificationSinceQuery(userID int64, typ notification.Type, since time.Time) (string, []any, error) {
	return existsQuery(
		qb.Eq("user_id", userID),
		qb.Eq("notification_type", string(typ)),
		qb.Eq("processed", false),
		qb.Gt("created_at", since.UTC()),
	)
}

func existsQuery(conds ...qb.Condition) (string, []any, error) {
	inner, args, err := qb.Select("1").From("notification_requests").
		Where(conds...).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", nil, err
	}
	return "SELECT EXISTS (" + inner + ")", args, nil
}

func (r *NotificationRepository) exists(ctx context.Context, label, query string, args []any) (bool, error) {
	var found bool
	if err := execerFrom(ctx, r.db).GetContext(ctx, &found, query, args...); err != nil {
		return false, fmt.Errorf("check notification %s: %w", label, err)
	}
	return found, nil
}

func (r *NotificationRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]notification.Request, error) {
	query, args, err := qb.Select(qb.Columns(notificationTableModel{}, "")...).From("notification_requests").
		Where(
			qb.Eq("processed", false),
			qb.Lte("scheduled_for", now.UTC()),
		).
		OrderBy("scheduled_for", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select due notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := execerFrom(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select due notifications: %w", err)
	}

	out := make([]notification.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, notification.Request{
			ID:           row.ID,
			UserID:       row.UserID,
			Type:         notification.Type(row.Type),
			Processed:    row.Processed,
			ScheduledFor: row.ScheduledFor.UTC(),
			CreatedAt:    row.CreatedAt.UTC(),
			ProcessedAt:  nullTimeToTimePtr(row.ProcessedAt),
		})
	}
	return out, nil
}

func (r *NotificationRepository) MarkProcessed(ctx context.Context, id int64, at time.Time) error {
	query, args, err := qb.Update("notification_requests").
		Set("processed", true).
		Set("processed_at", at.UTC()).
		Where(
			qb.Eq("id", id),
			qb.Eq("processed", false),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark notification processed query: %w", err)
	}

	if _, err := execerFrom(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark notification processed id=%d: %w", id, err)
	}
	return nil
}
