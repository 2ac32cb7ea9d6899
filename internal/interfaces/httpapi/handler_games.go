package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/usecase"
)

func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSports")
	defer span.End()

	items, err := h.gameService.ListSports(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]sportDTO, 0, len(items))
	for _, item := range items {
		out = append(out, sportToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListGamesBySport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamesBySport")
	defer span.End()

	sportID, err := pathInt64(r, "sportID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	week, err := queryInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season := strings.TrimSpace(r.URL.Query().Get("season"))

	items, err := h.gameService.ListByWeek(ctx, sportID, season, week)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]gameDTO, 0, len(items))
	for _, item := range items {
		out = append(out, gameToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// SyncGames lets any signed-in user pull a week from the feed on demand.
func (h *Handler) SyncGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncGames")
	defer span.End()

	userID, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.jobService == nil {
		writeError(ctx, w, fmt.Errorf("%w: job service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req syncWeekRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobService.Sync(ctx, usecase.TriggerUser, usecase.SyncInput{
		SportID: req.SportID,
		Season:  req.Season,
		Week:    req.Week,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "user game sync failed", "user_id", userID, "sport_id", req.SportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
