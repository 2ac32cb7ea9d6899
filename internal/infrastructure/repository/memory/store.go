package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/jobrun"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/notification"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
)

type LeagueSport struct {
	LeagueID int64
	SportID  int64
	Active   bool
}

type standingKey struct {
	LeagueID int64
	UserID   int64
	SportID  int64
	Season   string
	Week     int
}

type tables struct {
	users         map[int64]user.User
	sports        map[int64]sport.Sport
	leagues       map[int64]league.League
	members       []league.Member
	leagueSports  []LeagueSport
	games         map[int64]game.Game
	picks         map[int64]pick.Pick
	standings     map[standingKey]standing.Row
	notifications map[int64]notification.Request
	jobRuns       map[string]jobrun.Event

	nextGameID         int64
	nextPickID         int64
	nextNotificationID int64
}

func (t tables) clone() tables {
	out := t
	out.users = maps.Clone(t.users)
	out.sports = maps.Clone(t.sports)
	out.leagues = maps.Clone(t.leagues)
	out.members = append([]league.Member(nil), t.members...)
	out.leagueSports = append([]LeagueSport(nil), t.leagueSports...)
	out.games = maps.Clone(t.games)
	out.picks = maps.Clone(t.picks)
	out.standings = maps.Clone(t.standings)
	out.notifications = maps.Clone(t.notifications)
	out.jobRuns = maps.Clone(t.jobRuns)
	return out
}

// Store keeps every table in process memory. WithinTx snapshots the tables
// and restores them when fn fails. Transactions are serialized, and a
// rollback also discards writes made outside any transaction meanwhile.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data tables
}

type txKey struct{}

func NewStore(seed Seed) *Store {
	s := &Store{data: tables{
		users:         make(map[int64]user.User),
		sports:        make(map[int64]sport.Sport),
		leagues:       make(map[int64]league.League),
		games:         make(map[int64]game.Game),
		picks:         make(map[int64]pick.Pick),
		standings:     make(map[standingKey]standing.Row),
		notifications: make(map[int64]notification.Request),
		jobRuns:       make(map[string]jobrun.Event),
	}}
	for _, item := range seed.Users {
		s.data.users[item.ID] = item
	}
	for _, item := range seed.Sports {
		s.data.sports[item.ID] = item
	}
	for _, item := range seed.Leagues {
		s.data.leagues[item.ID] = item
	}
	s.data.members = append(s.data.members, seed.Members...)
	s.data.leagueSports = append(s.data.leagueSports, seed.LeagueSports...)
	for _, item := range seed.Games {
		s.data.games[item.ID] = item
		s.data.nextGameID = max(s.data.nextGameID, item.ID)
	}
	for _, item := range seed.Picks {
		s.data.picks[item.ID] = item
		s.data.nextPickID = max(s.data.nextPickID, item.ID)
	}
	return s
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

func (s *Store) write(fn func(t *tables)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}
