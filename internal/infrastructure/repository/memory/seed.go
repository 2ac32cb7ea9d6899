package memory

import (
	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
)

const (
	SportIDNFL = int64(1)
	SportIDNBA = int64(2)

	LeagueIDOffice = int64(1)
	LeagueIDFamily = int64(2)

	UserIDAdmin = int64(1)
	UserIDAlice = int64(2)
	UserIDBob   = int64(3)
)

// Seed is the initial content of a Store.
type Seed struct {
	Users        []user.User
	Sports       []sport.Sport
	Leagues      []league.League
	Members      []league.Member
	LeagueSports []LeagueSport
	Games        []game.Game
	Picks        []pick.Pick
}

// DefaultSeed is the fixture data used when no database is configured.
func DefaultSeed() Seed {
	return Seed{
		Users: []user.User{
			{ID: UserIDAdmin, Username: "commish", Email: "commish@example.com", DisplayName: "Commissioner"},
			{ID: UserIDAlice, Username: "alice", Email: "alice@example.com", DisplayName: "Alice"},
			{ID: UserIDBob, Username: "bob", Email: "bob@example.com", DisplayName: "Bob"},
		},
		Sports: []sport.Sport{
			{ID: SportIDNFL, Name: "NFL", ExternalID: "football/nfl"},
			{ID: SportIDNBA, Name: "NBA", ExternalID: "basketball/nba"},
		},
		Leagues: []league.League{
			{ID: LeagueIDOffice, Name: "Office Pool", TiebreakerEnabled: true, CreatedBy: UserIDAdmin},
			{ID: LeagueIDFamily, Name: "Family League", TiebreakerEnabled: false, CreatedBy: UserIDAlice},
		},
		Members: []league.Member{
			{LeagueID: LeagueIDOffice, UserID: UserIDAdmin, IsAdmin: true},
			{LeagueID: LeagueIDOffice, UserID: UserIDAlice},
			{LeagueID: LeagueIDOffice, UserID: UserIDBob},
			{LeagueID: LeagueIDFamily, UserID: UserIDAlice, IsAdmin: true},
			{LeagueID: LeagueIDFamily, UserID: UserIDBob},
		},
		LeagueSports: []LeagueSport{
			{LeagueID: LeagueIDOffice, SportID: SportIDNFL, Active: true},
			{LeagueID: LeagueIDFamily, SportID: SportIDNFL, Active: true},
			{LeagueID: LeagueIDFamily, SportID: SportIDNBA, Active: false},
		},
	}
}
