package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/pickem-league/internal/domain/jobrun"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type JobRunRepository struct {
	db *sqlx.DB
}

func NewJobRunRepository(db *sqlx.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

// UpsertEvent folds one status transition into the run's journal row.
// It always writes outside any caller transaction so a rolled back job
// still leaves its failure behind.
func (r *JobRunRepository) UpsertEvent(ctx context.Context, event jobrun.Event) error {
	runID := strings.TrimSpace(event.RunID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	jobName := strings.TrimSpace(event.JobName)
	if jobName == "" {
		jobName = "unknown"
	}
	trigger := strings.TrimSpace(event.Trigger)
	if trigger == "" {
		trigger = "unknown"
	}

	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	scopeJSON, err := marshalScope(event.Scope)
	if err != nil {
		return fmt.Errorf("marshal job run scope: %w", err)
	}
	resultJSON, err := marshalResult(event.Result)
	if err != nil {
		return fmt.Errorf("marshal job run result: %w", err)
	}

	model := jobRunInsertModel{
		RunID:     runID,
		JobName:   jobName,
		Trigger:   trigger,
		Status:    string(event.Status),
		Scope:     scopeJSON,
		Result:    resultJSON,
		LastError: optionalString(event.ErrorMessage),
		TraceID:   optionalString(event.TraceID),
		SpanID:    optionalString(event.SpanID),
		UpdatedAt: occurredAt,
	}
	switch event.Status {
	case jobrun.StatusStarted:
		model.StartedAt = &occurredAt
		model.LastError = nil
	case jobrun.StatusCompleted:
		model.CompletedAt = &occurredAt
		model.LastError = nil
	case jobrun.StatusFailed:
		model.FailedAt = &occurredAt
	}

	query, args, err := qb.InsertModel("job_runs", model, `ON CONFLICT (run_id)
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    trigger = EXCLUDED.trigger,
    status = EXCLUDED.status,
    scope = EXCLUDED.scope,
    result = COALESCE(EXCLUDED.result, job_runs.result),
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE NULL
    END,
    started_at = COALESCE(job_runs.started_at, EXCLUDED.started_at),
    completed_at = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_at
        ELSE job_runs.completed_at
    END,
    failed_at = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_at
        WHEN EXCLUDED.status = 'completed' THEN NULL
        ELSE job_runs.failed_at
    END,
    trace_id = COALESCE(EXCLUDED.trace_id, job_runs.trace_id),
    span_id = COALESCE(EXCLUDED.span_id, job_runs.span_id),
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert job run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job run run_id=%s status=%s: %w", runID, event.Status, err)
	}
	return nil
}

func marshalScope(scope map[string]any) (string, error) {
	if len(scope) == 0 {
		return "{}", nil
	}
	raw, err := jsoniter.Marshal(scope)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func marshalResult(result any) (*string, error) {
	if result == nil {
		return nil, nil
	}
	raw, err := jsoniter.Marshal(result)
	if err != nil {
		return nil, err
	}
	value := string(raw)
	return &value, nil
}
