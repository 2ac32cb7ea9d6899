package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedGameRoutes(mux, handler, verifier)
	registerAuthorizedLeagueRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
	mux.Handle("POST /v1/internal/jobs/sync-current", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncCurrentJob)))
	mux.Handle("POST /v1/internal/jobs/sweep-reminders", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSweepRemindersJob)))
	mux.Handle("POST /v1/internal/jobs/dispatch-notifications", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDispatchNotificationsJob)))
	mux.Handle("POST /v1/internal/jobs/calculate-standings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCalculateStandingsJob)))
}

func registerAuthorizedGameRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/sports", RequireAuth(verifier, http.HandlerFunc(handler.ListSports)))
	mux.Handle("GET /v1/sports/{sportID}/games", RequireAuth(verifier, http.HandlerFunc(handler.ListGamesBySport)))
	mux.Handle("POST /v1/games/sync", RequireAuth(verifier, http.HandlerFunc(handler.SyncGames)))
}

func registerAuthorizedLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues/{leagueID}/standings/calculate", RequireAuth(verifier, http.HandlerFunc(handler.CalculateLeagueStandings)))
	mux.Handle("GET /v1/leagues/{leagueID}/standings", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueStandings)))
	mux.Handle("POST /v1/leagues/{leagueID}/picks", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPick)))
	mux.Handle("GET /v1/leagues/{leagueID}/picks", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPicks)))
}
