package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pickem-league/internal/config"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                 config.EnvDev,
		ServiceName:            "pickem-league",
		ServiceVersion:         "test",
		HTTPAddr:               ":0",
		ReadTimeout:            time.Second,
		WriteTimeout:           time.Second,
		CacheEnabled:           true,
		CacheTTL:               time.Minute,
		CORSAllowedOrigins:     []string{"*"},
		ESPNBaseURL:            "http://127.0.0.1:1",
		ESPNTimeout:            time.Second,
		SMTPFromName:           "Pick'em League",
		SMTPTimeout:            time.Second,
		ReminderLead:           24 * time.Hour,
		ReminderDedupWindow:    time.Hour,
		DispatchBatchSize:      10,
		SyncMaxWorkers:         2,
		StandingsMaxWorkers:    2,
		SchedulerTimezone:      "UTC",
		SchedulerSyncCron:      "*/30 * * * *",
		SchedulerSweepCron:     "0 * * * *",
		SchedulerDispatchCron:  "*/5 * * * *",
		SchedulerStandingsCron: "15 */2 * * *",
		SchedulerJobTimeout:    time.Second,
		InternalJobToken:       "job-token",
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv, err := a.HTTPServer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// without JWT_SECRET every user token is refused
	req := httptest.NewRequest(http.MethodGet, "/v1/sports", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// internal jobs run against the seeded store
	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sweep-reminders", nil)
	req.Header.Set("X-Internal-Job-Token", "job-token")
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHTTPServer_RequiresAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = " "

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	_, err = a.HTTPServer()
	require.Error(t, err)
}

func TestNew_RejectsUnknownTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.SchedulerTimezone = "Nowhere/Special"

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

type countingJobs struct {
	sync, sweep, dispatch, standings atomic.Int32
	err                              error
}

func (j *countingJobs) SyncCurrentWeeks(context.Context, string) (usecase.SyncCurrentResult, error) {
	j.sync.Add(1)
	return usecase.SyncCurrentResult{}, j.err
}

func (j *countingJobs) SweepReminders(context.Context, string) (usecase.SweepResult, error) {
	j.sweep.Add(1)
	return usecase.SweepResult{}, j.err
}

func (j *countingJobs) DispatchNotifications(context.Context, string) (usecase.DispatchResult, error) {
	j.dispatch.Add(1)
	return usecase.DispatchResult{}, j.err
}

func (j *countingJobs) RecalculateCurrentStandings(context.Context, string) ([]usecase.RecalculateResult, error) {
	j.standings.Add(1)
	return nil, j.err
}

func TestNewScheduler_RegistersPipelineJobs(t *testing.T) {
	c, err := NewScheduler(testConfig(), &countingJobs{}, logging.NewNop())
	require.NoError(t, err)
	require.Len(t, c.Entries(), 4)
}

func TestNewScheduler_RejectsBadSpec(t *testing.T) {
	cfg := testConfig()
	cfg.SchedulerDispatchCron = "every five minutes"

	_, err := NewScheduler(cfg, &countingJobs{}, logging.NewNop())
	require.ErrorContains(t, err, "dispatch-notifications")
}

func TestPipelineSchedule_RunsEachJob(t *testing.T) {
	jobs := &countingJobs{err: errors.New("upstream down")}
	for _, job := range pipelineSchedule(testConfig(), jobs) {
		runScheduledJob(logging.NewNop(), time.Second, job)
	}

	require.EqualValues(t, 1, jobs.sync.Load())
	require.EqualValues(t, 1, jobs.sweep.Load())
	require.EqualValues(t, 1, jobs.dispatch.Load())
	require.EqualValues(t, 1, jobs.standings.Load())
}
