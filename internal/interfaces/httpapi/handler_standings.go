package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/domain/standing"
)

func (h *Handler) CalculateLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateLeagueStandings")
	defer span.End()

	userID, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	leagueID, err := pathInt64(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if _, err := h.leagueAccess.RequireAdmin(ctx, leagueID, userID); err != nil {
		writeError(ctx, w, err)
		return
	}

	var req calculateStandingsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.standingsService.Calculate(ctx, standing.Scope{
		LeagueID: leagueID,
		SportID:  req.SportID,
		Season:   req.Season,
		Week:     req.Week,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsCalculatedDTO{
		LeagueID:   result.LeagueID,
		SportID:    result.SportID,
		Season:     result.Season,
		Week:       result.Week,
		FinalGames: result.FinalGames,
		Rows:       totalsToDTO(rowsToTotals(result.Rows)),
	})
}

func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	userID, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	leagueID, err := pathInt64(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if _, err := h.leagueAccess.RequireMember(ctx, leagueID, userID); err != nil {
		writeError(ctx, w, err)
		return
	}

	sportID, err := queryInt64(r, "sport_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	week, err := queryInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := standing.Query{
		LeagueID: leagueID,
		SportID:  sportID,
		Season:   strings.TrimSpace(r.URL.Query().Get("season")),
	}
	if week > 0 {
		query.Week = &week
	}

	items, err := h.standingsService.List(ctx, query)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, totalsToDTO(items))
}
