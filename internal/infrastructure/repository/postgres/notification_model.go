package postgres

import (
	"database/sql"
	"time"
)

type notificationTableModel struct {
	ID           int64        `db:"id"`
	UserID       int64        `db:"user_id"`
	Type         string       `db:"notification_type"`
	Processed    bool         `db:"processed"`
	ScheduledFor time.Time    `db:"scheduled_for"`
	CreatedAt    time.Time    `db:"created_at"`
	ProcessedAt  sql.NullTime `db:"processed_at"`
}

type notificationInsertModel struct {
	UserID       int64     `db:"user_id"`
	Type         string    `db:"notification_type"`
	Processed    bool      `db:"processed"`
	ScheduledFor time.Time `db:"scheduled_for"`
	CreatedAt    time.Time `db:"created_at"`
}
