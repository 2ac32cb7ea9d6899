package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/pickem-league/internal/usecase"
)

func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

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

	result, err := h.jobService.Sync(ctx, usecase.TriggerHTTP, usecase.SyncInput{
		SportID: req.SportID,
		Season:  req.Season,
		Week:    req.Week,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run sync job failed", "sport_id", req.SportID, "season", req.Season, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncCurrentJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncCurrentJob")
	defer span.End()

	if h.jobService == nil {
		writeError(ctx, w, fmt.Errorf("%w: job service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.jobService.SyncCurrentWeeks(ctx, usecase.TriggerHTTP)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync current job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSweepRemindersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSweepRemindersJob")
	defer span.End()

	if h.jobService == nil {
		writeError(ctx, w, fmt.Errorf("%w: job service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.jobService.SweepReminders(ctx, usecase.TriggerHTTP)
	if err != nil {
		h.logger.WarnContext(ctx, "run sweep reminders job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunDispatchNotificationsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDispatchNotificationsJob")
	defer span.End()

	if h.jobService == nil {
		writeError(ctx, w, fmt.Errorf("%w: job service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.jobService.DispatchNotifications(ctx, usecase.TriggerHTTP)
	if err != nil {
		h.logger.WarnContext(ctx, "run dispatch notifications job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunCalculateStandingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCalculateStandingsJob")
	defer span.End()

	if h.jobService == nil {
		writeError(ctx, w, fmt.Errorf("%w: job service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req calculateStandingsJobRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobService.CalculateStandings(ctx, usecase.TriggerHTTP, usecase.CalculateStandingsJobInput{
		LeagueID: req.LeagueID,
		SportID:  req.SportID,
		Season:   req.Season,
		Week:     req.Week,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run calculate standings job failed",
			"league_id", req.LeagueID,
			"sport_id", req.SportID,
			"season", req.Season,
			"week", req.Week,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
