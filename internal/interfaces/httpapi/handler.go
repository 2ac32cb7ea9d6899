package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

type Handler struct {
	jobService       *usecase.JobService
	gameService      *usecase.GameService
	standingsService *usecase.StandingsService
	pickService      *usecase.PickService
	leagueAccess     *usecase.LeagueAccessService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	jobService *usecase.JobService,
	gameService *usecase.GameService,
	standingsService *usecase.StandingsService,
	pickService *usecase.PickService,
	leagueAccess *usecase.LeagueAccessService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		jobService:       jobService,
		gameService:      gameService,
		standingsService: standingsService,
		pickService:      pickService,
		leagueAccess:     leagueAccess,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// requirePrincipal returns the caller resolved by RequireAuth.
func requirePrincipal(ctx context.Context) (int64, error) {
	principal, ok := principalFromContext(ctx)
	if !ok || principal.UserID <= 0 {
		return 0, fmt.Errorf("%w: missing auth principal", usecase.ErrUnauthorized)
	}
	return principal.UserID, nil
}
