package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
)

func finalGame(id int64, home, away string, homeScore, awayScore int, favorite string, spread float64) game.Game {
	g := nflGame(id, fmt.Sprintf("40%d", id), home, away, fixtureNow.Add(-24*time.Hour))
	g.Status = game.StatusFinal
	g.HomeScore, g.AwayScore = homeScore, awayScore
	if favorite != "" {
		g.Favorite, g.Spread = favorite, spreadOf(spread)
	}
	return g
}

// standingsWeek builds one NFL week:
//   - game 1 Bills (-3.5) beat Dolphins by 7, favorite covers
//   - game 2 Giants upset Cowboys (-6.5)
//   - game 3 ends level
//   - game 4 is still scheduled
func standingsWeek(t *testing.T) *pipelineFixture {
	t.Helper()

	pickedAt := fixtureNow.Add(-48 * time.Hour)
	familyPick := pick.Pick{ID: 6, UserID: memory.UserIDAlice, GameID: 2, LeagueID: memory.LeagueIDFamily, PickedTeam: "New York Giants", UpdatedAt: pickedAt}

	return newPipelineFixture(t,
		[]game.Game{
			finalGame(1, "Buffalo Bills", "Miami Dolphins", 24, 17, "Buffalo Bills", 3.5),
			finalGame(2, "Dallas Cowboys", "New York Giants", 20, 24, "Dallas Cowboys", 6.5),
			finalGame(3, "Green Bay Packers", "Chicago Bears", 10, 10, "", 0),
			nflGame(4, "404", "Kansas City Chiefs", "Denver Broncos", fixtureNow.Add(24*time.Hour)),
		},
		[]pick.Pick{
			officePick(1, memory.UserIDAdmin, 1, "Buffalo Bills", pickedAt),
			officePick(2, memory.UserIDAdmin, 2, "Dallas Cowboys", pickedAt),
			officePick(3, memory.UserIDAdmin, 3, "Chicago Bears", pickedAt),
			officePick(4, memory.UserIDAlice, 1, "Miami Dolphins", pickedAt),
			officePick(5, memory.UserIDAlice, 2, "New York Giants", pickedAt),
			familyPick,
			officePick(7, memory.UserIDBob, 4, "Denver Broncos", pickedAt),
		},
	)
}

func TestStandingsService_CalculateScoresEveryMember(t *testing.T) {
	t.Parallel()

	f := standingsWeek(t)
	scope := standing.Scope{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Season: "2026", Week: 1}

	result, err := f.standing.Calculate(context.Background(), scope)
	require.NoError(t, err)
	require.Equal(t, 3, result.FinalGames)
	require.Equal(t, 3, result.Members)

	rows, err := f.standings.ListByScope(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byUser := make(map[int64]standing.Row, len(rows))
	for _, row := range rows {
		byUser[row.UserID] = row
		require.Equal(t, fixtureNow, row.UpdatedAt)
	}

	admin := byUser[memory.UserIDAdmin]
	require.Equal(t, [3]int{1, 1, 1}, [3]int{admin.Wins, admin.Losses, admin.Ties})
	require.InDelta(t, 1.5, admin.Points, 1e-9)

	alice := byUser[memory.UserIDAlice]
	require.Equal(t, [3]int{1, 1, 0}, [3]int{alice.Wins, alice.Losses, alice.Ties})
	require.InDelta(t, 2.0, alice.Points, 1e-9)

	// bob only picked a game that is not final yet
	bob := byUser[memory.UserIDBob]
	require.Zero(t, bob.Wins+bob.Losses+bob.Ties)
	require.Zero(t, bob.Points)
}

func TestStandingsService_TiebreakerOffCountsWinsOnly(t *testing.T) {
	t.Parallel()

	f := standingsWeek(t)
	scope := standing.Scope{LeagueID: memory.LeagueIDFamily, SportID: memory.SportIDNFL, Season: "2026", Week: 1}

	_, err := f.standing.Calculate(context.Background(), scope)
	require.NoError(t, err)

	totals, err := f.standing.List(context.Background(), standing.Query{LeagueID: memory.LeagueIDFamily, SportID: memory.SportIDNFL})
	require.NoError(t, err)
	require.Len(t, totals, 2)
	require.Equal(t, memory.UserIDAlice, totals[0].UserID)
	require.InDelta(t, 1.0, totals[0].Points, 1e-9)
}

func TestStandingsService_RecalculateOverwritesRows(t *testing.T) {
	t.Parallel()

	f := standingsWeek(t)
	scope := standing.Scope{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Season: "2026", Week: 1}

	_, err := f.standing.Calculate(context.Background(), scope)
	require.NoError(t, err)
	_, err = f.standing.Calculate(context.Background(), scope)
	require.NoError(t, err)

	totals, err := f.standing.List(context.Background(), standing.Query{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Season: "2026"})
	require.NoError(t, err)
	require.Len(t, totals, 3)
	require.Equal(t, []int64{memory.UserIDAlice, memory.UserIDAdmin, memory.UserIDBob},
		[]int64{totals[0].UserID, totals[1].UserID, totals[2].UserID})
	require.InDelta(t, 2.0, totals[0].Points, 1e-9)
	require.Equal(t, "alice", totals[0].Username)
}

func TestStandingsService_CalculateRejections(t *testing.T) {
	t.Parallel()

	f := standingsWeek(t)

	tests := []struct {
		name  string
		scope standing.Scope
		want  error
	}{
		{name: "no final games", scope: standing.Scope{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Season: "2026", Week: 2}, want: ErrPrecondition},
		{name: "unknown league", scope: standing.Scope{LeagueID: 99, SportID: memory.SportIDNFL, Season: "2026", Week: 1}, want: ErrNotFound},
		{name: "unknown sport", scope: standing.Scope{LeagueID: memory.LeagueIDOffice, SportID: 99, Season: "2026", Week: 1}, want: ErrNotFound},
		{name: "missing season", scope: standing.Scope{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Week: 1}, want: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.standing.Calculate(context.Background(), tt.scope)
			require.ErrorIs(t, err, tt.want)
		})
	}

	rows, err := f.standings.ListByScope(context.Background(), standing.Scope{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Season: "2026", Week: 2})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestStandingsService_RecalculateCurrentWeeks(t *testing.T) {
	t.Parallel()

	f := standingsWeek(t)

	results, err := f.standing.RecalculateCurrentWeeks(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	nfl := results[0]
	require.Equal(t, memory.SportIDNFL, nfl.SportID)
	require.Len(t, nfl.Computed, 2)
	require.Equal(t, memory.LeagueIDOffice, nfl.Computed[0].LeagueID)
	require.Equal(t, memory.LeagueIDFamily, nfl.Computed[1].LeagueID)
	require.Empty(t, nfl.Failed)
}

func TestStandingsService_RecalculateSkipsWeeksWithoutFinals(t *testing.T) {
	t.Parallel()

	f := standingsWeek(t)

	result, err := f.standing.RecalculateSportWeek(context.Background(), memory.SportIDNFL, "2026", 5)
	require.NoError(t, err)
	require.Empty(t, result.Computed)
	require.Equal(t, []int64{memory.LeagueIDOffice, memory.LeagueIDFamily}, result.Skipped)
}

func TestStandingsService_ListSingleWeek(t *testing.T) {
	t.Parallel()

	f := standingsWeek(t)
	_, err := f.standing.Calculate(context.Background(), standing.Scope{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Season: "2026", Week: 1})
	require.NoError(t, err)

	week := 1
	totals, err := f.standing.List(context.Background(), standing.Query{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Season: "2026", Week: &week})
	require.NoError(t, err)
	require.Len(t, totals, 3)

	other := 2
	totals, err = f.standing.List(context.Background(), standing.Query{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Season: "2026", Week: &other})
	require.NoError(t, err)
	require.Empty(t, totals)

	zero := 0
	_, err = f.standing.List(context.Background(), standing.Query{LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Week: &zero})
	require.ErrorIs(t, err, ErrInvalidInput)
}
