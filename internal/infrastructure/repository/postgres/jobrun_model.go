package postgres

import "time"

type jobRunInsertModel struct {
	RunID       string     `db:"run_id"`
	JobName     string     `db:"job_name"`
	Trigger     string     `db:"trigger"`
	Status      string     `db:"status"`
	Scope       string     `db:"scope"`
	Result      *string    `db:"result"`
	LastError   *string    `db:"last_error"`
	StartedAt   *time.Time `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
	FailedAt    *time.Time `db:"failed_at"`
	TraceID     *string    `db:"trace_id"`
	SpanID      *string    `db:"span_id"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
