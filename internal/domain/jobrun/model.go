package jobrun

import "time"

type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const (
	JobSync                  = "sync"
	JobSyncCurrent           = "sync-current"
	JobSweepReminders        = "sweep-reminders"
	JobDispatchNotifications = "dispatch-notifications"
	JobCalculateStandings    = "calculate-standings"
)

// Event is one state transition of a job run. Events sharing a RunID fold
// into a single journal row.
type Event struct {
	RunID        string
	JobName      string
	Trigger      string
	Status       Status
	Scope        map[string]any
	Result       any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
