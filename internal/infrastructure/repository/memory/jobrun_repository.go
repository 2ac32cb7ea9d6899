package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/domain/jobrun"
)

type JobRunRepository struct {
	store *Store
}

func NewJobRunRepository(store *Store) *JobRunRepository {
	return &JobRunRepository{store: store}
}

// UpsertEvent keeps the latest event per run.
func (r *JobRunRepository) UpsertEvent(_ context.Context, event jobrun.Event) error {
	runID := strings.TrimSpace(event.RunID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	r.store.write(func(t *tables) {
		t.jobRuns[runID] = event
	})
	return nil
}

func (r *JobRunRepository) Get(runID string) (jobrun.Event, bool) {
	var (
		item jobrun.Event
		ok   bool
	)
	r.store.read(func(t *tables) {
		item, ok = t.jobRuns[runID]
	})
	return item, ok
}
