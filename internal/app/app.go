package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/pickem-league/external/espn"
	"github.com/riskibarqy/pickem-league/internal/config"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/mailer"
	"github.com/riskibarqy/pickem-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/pickem-league/internal/platform/id"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/platform/resilience"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

const jwtLeeway = 30 * time.Second

// App holds the wired services shared by the api and worker binaries.
type App struct {
	cfg    config.Config
	logger *logging.Logger
	repos  repositories

	Jobs      *usecase.JobService
	Games     *usecase.GameService
	Standings *usecase.StandingsService
	Picks     *usecase.PickService
	Access    *usecase.LeagueAccessService
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(cfg.SchedulerTimezone)
	if err != nil {
		_ = repos.close()
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}
	renderer, err := mailer.NewRenderer(mailer.RendererConfig{
		AppName:  cfg.SMTPFromName,
		PicksURL: cfg.PublicURL,
		Location: location,
	})
	if err != nil {
		_ = repos.close()
		return nil, fmt.Errorf("build renderer: %w", err)
	}

	scheduler := usecase.NewNotificationSchedulerService(
		repos.sports,
		repos.games,
		repos.leagues,
		repos.picks,
		repos.notifications,
		repos.tx,
		usecase.NotificationSchedulerConfig{
			ReminderLead: cfg.ReminderLead,
			DedupWindow:  cfg.ReminderDedupWindow,
		},
		logger.Named("scheduler"),
	)
	reconciler := usecase.NewGameReconcilerService(
		repos.sports,
		repos.games,
		repos.picks,
		newESPNClient(cfg, logger),
		scheduler,
		repos.tx,
		usecase.GameReconcilerConfig{MaxWorkers: cfg.SyncMaxWorkers},
		logger.Named("reconciler"),
	)
	standings := usecase.NewStandingsService(
		repos.sports,
		repos.games,
		repos.leagues,
		repos.picks,
		repos.standings,
		repos.tx,
		usecase.StandingsConfig{MaxWorkers: cfg.StandingsMaxWorkers},
		logger.Named("standings"),
	)
	dispatcher := usecase.NewNotificationDispatcherService(
		repos.notifications,
		repos.users,
		repos.leagues,
		repos.games,
		repos.picks,
		renderer,
		newMailer(cfg, logger),
		usecase.NotificationDispatcherConfig{
			BatchSize:   cfg.DispatchBatchSize,
			SendTimeout: cfg.SMTPTimeout,
		},
		logger.Named("dispatcher"),
	)

	return &App{
		cfg:       cfg,
		logger:    logger,
		repos:     repos,
		Jobs:      usecase.NewJobService(reconciler, scheduler, standings, dispatcher, repos.jobRuns, id.NewUUIDGenerator(), logger.Named("jobs")),
		Games:     usecase.NewGameService(repos.sports, repos.games),
		Standings: standings,
		Picks:     usecase.NewPickService(repos.leagues, repos.games, repos.picks, logger.Named("picks")),
		Access:    usecase.NewLeagueAccessService(repos.leagues),
	}, nil
}

// HTTPServer builds the public api server around the wired services.
func (a *App) HTTPServer() (*http.Server, error) {
	if strings.TrimSpace(a.cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	verifier, err := newVerifier(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(a.Jobs, a.Games, a.Standings, a.Picks, a.Access, a.logger.Named("http"))
	router := httpapi.NewRouter(handler, verifier, a.logger.Named("http"), a.cfg.CORSAllowedOrigins, a.cfg.InternalJobToken)

	return &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}, nil
}

func (a *App) Close() error {
	if a.repos.close == nil {
		return nil
	}
	return a.repos.close()
}

func newESPNClient(cfg config.Config, logger *logging.Logger) *espn.Client {
	return espn.NewClient(espn.ClientConfig{
		HTTPClient: &fasthttp.Client{
			Name:                "pickem-league/" + cfg.ServiceVersion,
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.ESPNTimeout,
			WriteTimeout:        cfg.ESPNTimeout,
			MaxIdleConnDuration: time.Minute,
		},
		BaseURL:    cfg.ESPNBaseURL,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger.Named("espn"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})
}

func newMailer(cfg config.Config, logger *logging.Logger) usecase.Mailer {
	if !cfg.SMTPEnabled {
		return mailer.NewLogMailer(logger.Named("mailer"))
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
		FromName:  cfg.SMTPFromName,
		Timeout:   cfg.SMTPTimeout,
	}, logger.Named("mailer"))
}

func newVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	if cfg.JWTSecret == "" {
		// only reachable outside prod, config rejects it there
		logger.Warn("JWT_SECRET empty, user endpoints will reject every token")
		return unavailableVerifier{}, nil
	}
	verifier, err := jwtauth.NewVerifier(jwtauth.Config{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		Leeway: jwtLeeway,
	})
	if err != nil {
		return nil, fmt.Errorf("build jwt verifier: %w", err)
	}
	return verifier, nil
}

type unavailableVerifier struct{}

func (unavailableVerifier) VerifyAccessToken(context.Context, string) (user.Principal, error) {
	return user.Principal{}, fmt.Errorf("%w: token verification is not configured", usecase.ErrDependencyUnavailable)
}
