package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/usecase"
	"github.com/stretchr/testify/require"
)

const testJobToken = "job-secret"

type staticVerifier map[string]user.Principal

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

var testVerifier = staticVerifier{
	"admin": {UserID: memory.UserIDAdmin, Username: "commish"},
	"alice": {UserID: memory.UserIDAlice, Username: "alice"},
}

func newTestRouter(t *testing.T, games ...game.Game) http.Handler {
	t.Helper()

	seed := memory.DefaultSeed()
	seed.Sports[0].CurrentSeason = "2026"
	seed.Sports[0].CurrentWeek = 2
	seed.Games = games
	store := memory.NewStore(seed)

	logger := logging.NewNop()
	sportRepo := memory.NewSportRepository(store)
	gameRepo := memory.NewGameRepository(store)
	leagueRepo := memory.NewLeagueRepository(store)
	pickRepo := memory.NewPickRepository(store)
	standingRepo := memory.NewStandingRepository(store)
	notificationRepo := memory.NewNotificationRepository(store)

	scheduler := usecase.NewNotificationSchedulerService(sportRepo, gameRepo, leagueRepo, pickRepo, notificationRepo, store, usecase.NotificationSchedulerConfig{}, logger)
	standings := usecase.NewStandingsService(sportRepo, gameRepo, leagueRepo, pickRepo, standingRepo, store, usecase.StandingsConfig{}, logger)
	jobs := usecase.NewJobService(nil, scheduler, standings, nil, memory.NewJobRunRepository(store), nil, logger)

	handler := NewHandler(
		jobs,
		usecase.NewGameService(sportRepo, gameRepo),
		standings,
		usecase.NewPickService(leagueRepo, gameRepo, pickRepo, logger),
		usecase.NewLeagueAccessService(leagueRepo),
		logger,
	)
	return NewRouter(handler, testVerifier, logger, nil, testJobToken)
}

func doRequest(t *testing.T, router http.Handler, method, target, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func upcomingGame(id int64, kickoff time.Time) game.Game {
	return game.Game{
		ID:           id,
		SportID:      memory.SportIDNFL,
		ExternalID:   fmt.Sprintf("evt-%d", id),
		HomeTeam:     "Buffalo Bills",
		AwayTeam:     "Miami Dolphins",
		KickoffAt:    kickoff,
		Season:       "2026",
		Week:         2,
		Status:       game.StatusScheduled,
		LastModified: kickoff.Add(-72 * time.Hour),
	}
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, body := doRequest(t, router, http.MethodGet, "/healthz", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ok", data["status"])
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, _ := doRequest(t, router, http.MethodGet, "/v1/sports", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/sports", "nobody", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ListGamesDefaultsToCurrentWeek(t *testing.T) {
	t.Parallel()

	kickoff := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	router := newTestRouter(t, upcomingGame(10, kickoff))

	rec, body := doRequest(t, router, http.MethodGet, "/v1/sports/1/games", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	items, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	require.Equal(t, "evt-10", first["external_id"])
	require.Equal(t, kickoff.Format(time.RFC3339), first["kickoff_at"])
}

func TestRouter_SubmitAndListPicks(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, upcomingGame(10, time.Now().UTC().Add(48*time.Hour)))

	rec, body := doRequest(t, router, http.MethodPost, "/v1/leagues/1/picks", "alice", `{"game_id":10,"picked_team":"Miami Dolphins"}`)
	require.Equal(t, http.StatusOK, rec.Code, body)

	rec, body = doRequest(t, router, http.MethodGet, "/v1/leagues/1/picks?sport_id=1&season=2026&week=2", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code, body)
	items, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	require.Equal(t, "Miami Dolphins", items[0].(map[string]any)["picked_team"])
}

func TestRouter_SubmitPickRejections(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	router := newTestRouter(t,
		upcomingGame(10, now.Add(48*time.Hour)),
		upcomingGame(11, now.Add(-time.Hour)),
	)

	tests := []struct {
		name   string
		token  string
		target string
		body   string
		status int
	}{
		{name: "not a member", token: "admin", target: "/v1/leagues/2/picks", body: `{"game_id":10,"picked_team":"Buffalo Bills"}`, status: http.StatusForbidden},
		{name: "unknown league", token: "alice", target: "/v1/leagues/99/picks", body: `{"game_id":10,"picked_team":"Buffalo Bills"}`, status: http.StatusNotFound},
		{name: "bad league id", token: "alice", target: "/v1/leagues/abc/picks", body: `{"game_id":10,"picked_team":"Buffalo Bills"}`, status: http.StatusBadRequest},
		{name: "unknown field", token: "alice", target: "/v1/leagues/1/picks", body: `{"game_id":10,"team":"Buffalo Bills"}`, status: http.StatusBadRequest},
		{name: "team not playing", token: "alice", target: "/v1/leagues/1/picks", body: `{"game_id":10,"picked_team":"Dallas Cowboys"}`, status: http.StatusBadRequest},
		{name: "already kicked off", token: "alice", target: "/v1/leagues/1/picks", body: `{"game_id":11,"picked_team":"Buffalo Bills"}`, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doRequest(t, router, http.MethodPost, tt.target, tt.token, tt.body)
			require.Equal(t, tt.status, rec.Code, body)
			_, hasError := body["error"]
			require.True(t, hasError)
		})
	}
}

func TestRouter_CalculateStandingsRequiresAdmin(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	payload := `{"sport_id":1,"season":"2026","week":2}`

	rec, _ := doRequest(t, router, http.MethodPost, "/v1/leagues/1/standings/calculate", "alice", payload)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// admin passes the gate but there are no final games yet
	rec, body := doRequest(t, router, http.MethodPost, "/v1/leagues/1/standings/calculate", "admin", payload)
	require.Equal(t, http.StatusConflict, rec.Code, body)
}

func TestRouter_CalculateAndListStandings(t *testing.T) {
	t.Parallel()

	final := upcomingGame(10, time.Now().UTC().Add(-24*time.Hour))
	final.Status = game.StatusFinal
	final.HomeScore, final.AwayScore = 24, 17
	router := newTestRouter(t, final)

	rec, body := doRequest(t, router, http.MethodPost, "/v1/leagues/1/standings/calculate", "admin", `{"sport_id":1,"season":"2026","week":2}`)
	require.Equal(t, http.StatusOK, rec.Code, body)
	data := body["data"].(map[string]any)
	require.EqualValues(t, 1, data["final_games"])

	rec, body = doRequest(t, router, http.MethodGet, "/v1/leagues/1/standings?sport_id=1", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code, body)
	rows, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 3)
}

func TestRouter_InternalJobsRequireToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sweep-reminders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sweep-reminders", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRouter_InternalSyncJobValidatesPayload(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", strings.NewReader(`{"sport_id":1}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireInternalJobToken_NotConfigured(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", nil)
	req.Header.Set("X-Internal-Job-Token", "anything")
	rec := httptest.NewRecorder()

	RequireInternalJobToken("", next).ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
