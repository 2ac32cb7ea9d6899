package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

var fixtureNow = time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixtureNow }

// pipelineFixture wires every pipeline service on one in-memory store with a
// frozen clock.
type pipelineFixture struct {
	store         *memory.Store
	sports        *memory.SportRepository
	games         *memory.GameRepository
	leagues       *memory.LeagueRepository
	picks         *memory.PickRepository
	standings     *memory.StandingRepository
	notifications *memory.NotificationRepository
	users         *memory.UserRepository
	jobRuns       *memory.JobRunRepository

	scheduler *NotificationSchedulerService
	standing  *StandingsService
}

func newPipelineFixture(t *testing.T, games []game.Game, picks []pick.Pick) *pipelineFixture {
	t.Helper()

	seed := memory.DefaultSeed()
	seed.Sports[0].CurrentSeason = "2026"
	seed.Sports[0].CurrentWeek = 1
	seed.Games = games
	seed.Picks = picks
	store := memory.NewStore(seed)

	f := &pipelineFixture{
		store:         store,
		sports:        memory.NewSportRepository(store),
		games:         memory.NewGameRepository(store),
		leagues:       memory.NewLeagueRepository(store),
		picks:         memory.NewPickRepository(store),
		standings:     memory.NewStandingRepository(store),
		notifications: memory.NewNotificationRepository(store),
		users:         memory.NewUserRepository(store),
		jobRuns:       memory.NewJobRunRepository(store),
	}

	f.scheduler = NewNotificationSchedulerService(
		f.sports, f.games, f.leagues, f.picks, f.notifications, store,
		NotificationSchedulerConfig{ReminderLead: 24 * time.Hour, DedupWindow: time.Hour},
		logging.NewNop(),
	)
	f.scheduler.now = fixedClock

	f.standing = NewStandingsService(f.sports, f.games, f.leagues, f.picks, f.standings, store, StandingsConfig{MaxWorkers: 2}, logging.NewNop())
	f.standing.now = fixedClock
	return f
}

func (f *pipelineFixture) reconciler(source GameSource) *GameReconcilerService {
	svc := NewGameReconcilerService(f.sports, f.games, f.picks, source, f.scheduler, f.store, GameReconcilerConfig{MaxWorkers: 2}, logging.NewNop())
	svc.now = fixedClock
	return svc
}

func spreadOf(v float64) *float64 { return &v }

func nflGame(id int64, externalID, home, away string, kickoff time.Time) game.Game {
	return game.Game{
		ID:           id,
		SportID:      memory.SportIDNFL,
		ExternalID:   externalID,
		HomeTeam:     home,
		AwayTeam:     away,
		KickoffAt:    kickoff,
		Venue:        "Stadium " + externalID,
		Season:       "2026",
		Week:         1,
		Status:       game.StatusScheduled,
		LastModified: fixtureNow.Add(-72 * time.Hour),
	}
}

func recordOf(g game.Game) game.Record {
	return game.Record{
		ExternalID: g.ExternalID,
		HomeTeam:   g.HomeTeam,
		AwayTeam:   g.AwayTeam,
		HomeScore:  g.HomeScore,
		AwayScore:  g.AwayScore,
		Spread:     g.Spread,
		Favorite:   g.Favorite,
		KickoffAt:  g.KickoffAt,
		Venue:      g.Venue,
		Status:     g.Status,
	}
}

func officePick(id, userID, gameID int64, team string, updatedAt time.Time) pick.Pick {
	return pick.Pick{
		ID:         id,
		UserID:     userID,
		GameID:     gameID,
		LeagueID:   memory.LeagueIDOffice,
		PickedTeam: team,
		CreatedAt:  updatedAt,
		UpdatedAt:  updatedAt,
	}
}
