package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/usecase"
)

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
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

	var req submitPickRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.pickService.Submit(ctx, usecase.SubmitPickInput{
		UserID:     userID,
		LeagueID:   leagueID,
		GameID:     req.GameID,
		PickedTeam: req.PickedTeam,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(saved))
}

func (h *Handler) ListMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPicks")
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

	items, err := h.pickService.List(ctx, usecase.ListPicksInput{
		UserID:   userID,
		LeagueID: leagueID,
		SportID:  sportID,
		Season:   strings.TrimSpace(r.URL.Query().Get("season")),
		Week:     week,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]pickDTO, 0, len(items))
	for _, item := range items {
		out = append(out, pickToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
