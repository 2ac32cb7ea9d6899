package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pickem-league/internal/config"
	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/jobrun"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/notification"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/pickem-league/internal/platform/cache"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

type repositories struct {
	sports        sport.Repository
	games         game.Repository
	leagues       league.Repository
	picks         pick.Repository
	standings     standing.Repository
	notifications notification.Repository
	users         user.Repository
	jobRuns       jobrun.Repository
	tx            usecase.Transactor
	close         func() error
}

// buildRepositories picks the storage backend. An empty DB_URL runs the whole
// pipeline against the seeded in-memory store.
func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	var repos repositories
	if cfg.DBURL == "" {
		logger.Warn("DB_URL empty, using in-memory store")
		repos = memoryRepositories(memory.NewStore(memory.DefaultSeed()))
	} else {
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("ping database: %w", err)
		}
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
		logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL), "max_open_conns", cfg.DBMaxOpenConns)
		repos = postgresRepositories(db)
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.leagues = cache.NewLeagueRepository(repos.leagues, store)
		repos.standings = cache.NewStandingRepository(repos.standings, store)
	}
	return repos, nil
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		sports:        memory.NewSportRepository(store),
		games:         memory.NewGameRepository(store),
		leagues:       memory.NewLeagueRepository(store),
		picks:         memory.NewPickRepository(store),
		standings:     memory.NewStandingRepository(store),
		notifications: memory.NewNotificationRepository(store),
		users:         memory.NewUserRepository(store),
		jobRuns:       memory.NewJobRunRepository(store),
		tx:            store,
		close:         func() error { return nil },
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		sports:        postgres.NewSportRepository(db),
		games:         postgres.NewGameRepository(db),
		leagues:       postgres.NewLeagueRepository(db),
		picks:         postgres.NewPickRepository(db),
		standings:     postgres.NewStandingRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		users:         postgres.NewUserRepository(db),
		jobRuns:       postgres.NewJobRunRepository(db),
		tx:            postgres.NewTransactor(db),
		close:         db.Close,
	}
}
