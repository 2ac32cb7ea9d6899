package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

func (f *pipelineFixture) pickService() *PickService {
	svc := NewPickService(f.leagues, f.games, f.picks, logging.NewNop())
	svc.now = fixedClock
	return svc
}

func TestPickService_SubmitReplacesExistingPick(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t, []game.Game{nflGame(1, "401", "Buffalo Bills", "Miami Dolphins", fixtureNow.Add(time.Hour))}, nil)
	svc := f.pickService()
	input := SubmitPickInput{UserID: memory.UserIDAlice, LeagueID: memory.LeagueIDOffice, GameID: 1, PickedTeam: " Buffalo Bills "}

	first, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "Buffalo Bills", first.PickedTeam)

	svc.now = func() time.Time { return fixtureNow.Add(time.Minute) }
	input.PickedTeam = "Miami Dolphins"
	second, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, fixtureNow.Add(time.Minute), second.UpdatedAt)

	items, err := svc.List(context.Background(), ListPicksInput{
		UserID:   memory.UserIDAlice,
		LeagueID: memory.LeagueIDOffice,
		SportID:  memory.SportIDNFL,
		Season:   "2026",
		Week:     1,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Miami Dolphins", items[0].PickedTeam)
}

func TestPickService_SubmitRejections(t *testing.T) {
	t.Parallel()

	nba := game.Game{
		ID: 3, SportID: memory.SportIDNBA, ExternalID: "nba-1",
		HomeTeam: "Boston Celtics", AwayTeam: "New York Knicks",
		KickoffAt: fixtureNow.Add(time.Hour), Season: "2026", Week: 1, Status: game.StatusScheduled,
	}
	f := newPipelineFixture(t, []game.Game{
		nflGame(1, "401", "Buffalo Bills", "Miami Dolphins", fixtureNow.Add(time.Hour)),
		nflGame(2, "402", "Dallas Cowboys", "New York Giants", fixtureNow),
		nba,
	}, nil)
	svc := f.pickService()

	tests := []struct {
		name  string
		input SubmitPickInput
		want  error
	}{
		{name: "blank team", input: SubmitPickInput{UserID: memory.UserIDAlice, LeagueID: memory.LeagueIDOffice, GameID: 1, PickedTeam: "  "}, want: ErrInvalidInput},
		{name: "unknown game", input: SubmitPickInput{UserID: memory.UserIDAlice, LeagueID: memory.LeagueIDOffice, GameID: 99, PickedTeam: "Buffalo Bills"}, want: ErrNotFound},
		{name: "team not playing", input: SubmitPickInput{UserID: memory.UserIDAlice, LeagueID: memory.LeagueIDOffice, GameID: 1, PickedTeam: "Dallas Cowboys"}, want: ErrInvalidInput},
		{name: "kickoff reached", input: SubmitPickInput{UserID: memory.UserIDAlice, LeagueID: memory.LeagueIDOffice, GameID: 2, PickedTeam: "Dallas Cowboys"}, want: ErrPrecondition},
		{name: "sport inactive in league", input: SubmitPickInput{UserID: memory.UserIDAlice, LeagueID: memory.LeagueIDFamily, GameID: 3, PickedTeam: "Boston Celtics"}, want: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPickService_ListRequiresWeek(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t, nil, nil)
	_, err := f.pickService().List(context.Background(), ListPicksInput{
		UserID: memory.UserIDAlice, LeagueID: memory.LeagueIDOffice, SportID: memory.SportIDNFL, Season: "2026",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
