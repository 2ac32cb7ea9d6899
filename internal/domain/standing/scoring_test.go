package standing

import (
	"testing"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lined(id int64, home, away int, spread float64, favorite string) game.Game {
	return game.Game{
		ID:        id,
		HomeTeam:  "Home",
		AwayTeam:  "Away",
		HomeScore: home,
		AwayScore: away,
		Spread:    &spread,
		Favorite:  favorite,
		Status:    game.StatusFinal,
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tiebreaker bool
		games      []game.Game
		picks      map[int64]string
		want       Tally
		points     float64
	}{
		{
			name:       "favorite covers",
			tiebreaker: true,
			games:      []game.Game{lined(1, 24, 17, 3.5, "Home")},
			picks:      map[int64]string{1: "Home"},
			want:       Tally{Wins: 1, Bonus: 0.5},
			points:     1.5,
		},
		{
			name:       "favorite wins without covering",
			tiebreaker: true,
			games:      []game.Game{lined(1, 20, 17, 3.5, "Home")},
			picks:      map[int64]string{1: "Home"},
			want:       Tally{Wins: 1},
			points:     1,
		},
		{
			name:       "margin equal to spread does not cover",
			tiebreaker: true,
			games:      []game.Game{lined(1, 20, 17, 3, "Home")},
			picks:      map[int64]string{1: "Home"},
			want:       Tally{Wins: 1},
			points:     1,
		},
		{
			name:       "underdog wins outright",
			tiebreaker: true,
			games:      []game.Game{lined(1, 17, 20, 3.5, "Home")},
			picks:      map[int64]string{1: "Away"},
			want:       Tally{Wins: 1, Bonus: 1},
			points:     2,
		},
		{
			name:       "tiebreaker disabled",
			tiebreaker: false,
			games:      []game.Game{lined(1, 17, 20, 3.5, "Home")},
			picks:      map[int64]string{1: "Away"},
			want:       Tally{Wins: 1},
			points:     1,
		},
		{
			name:       "tie",
			tiebreaker: true,
			games:      []game.Game{lined(1, 14, 14, 3.5, "Home")},
			picks:      map[int64]string{1: "Away"},
			want:       Tally{Ties: 1},
			points:     0,
		},
		{
			name:       "no pick",
			tiebreaker: true,
			games:      []game.Game{lined(1, 24, 17, 3.5, "Home")},
			picks:      map[int64]string{},
			want:       Tally{},
			points:     0,
		},
		{
			name:       "wrong pick",
			tiebreaker: true,
			games:      []game.Game{lined(1, 24, 17, 3.5, "Home")},
			picks:      map[int64]string{1: "Away"},
			want:       Tally{Losses: 1},
			points:     0,
		},
		{
			name:       "no line no bonus",
			tiebreaker: true,
			games: []game.Game{{
				ID: 1, HomeTeam: "Home", AwayTeam: "Away", HomeScore: 30, AwayScore: 3, Status: game.StatusFinal,
			}},
			picks:  map[int64]string{1: "Home"},
			want:   Tally{Wins: 1},
			points: 1,
		},
		{
			name:       "non final games are ignored",
			tiebreaker: true,
			games: []game.Game{{
				ID: 1, HomeTeam: "Home", AwayTeam: "Away", HomeScore: 30, AwayScore: 3, Status: game.StatusInProgress,
			}},
			picks: map[int64]string{1: "Home"},
			want:  Tally{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Score(tc.tiebreaker, tc.games, tc.picks)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.points, got.Points())
		})
	}
}

func TestSortTotals(t *testing.T) {
	t.Parallel()

	items := []Total{
		{UserID: 1, Points: 3, Wins: 3},
		{UserID: 2, Points: 3.5, Wins: 3},
		{UserID: 3, Points: 3, Wins: 2},
		{UserID: 4, Points: 3, Wins: 3},
	}
	SortTotals(items)

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.UserID)
	}
	require.Equal(t, []int64{2, 1, 4, 3}, ids)
}

func TestScopeValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Scope{LeagueID: 1, SportID: 1, Season: "2026", Week: 1}.Validate())
	require.ErrorIs(t, Scope{LeagueID: 1, SportID: 1, Season: "2026"}.Validate(), ErrInvalidScope)
	require.ErrorIs(t, Scope{SportID: 1, Season: "2026", Week: 1}.Validate(), ErrInvalidScope)
}
