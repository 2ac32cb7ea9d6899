package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/notification"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/mailer"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
	notificationmock "github.com/riskibarqy/pickem-league/internal/mocks/domain/notification"
	usecasemock "github.com/riskibarqy/pickem-league/internal/mocks/usecase"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

func (f *pipelineFixture) dispatcher(t *testing.T, transport Mailer) *NotificationDispatcherService {
	t.Helper()

	renderer, err := mailer.NewRenderer(mailer.RendererConfig{AppName: "Pick'em League", PicksURL: "https://picks.example.com"})
	require.NoError(t, err)

	svc := NewNotificationDispatcherService(f.notifications, f.users, f.leagues, f.games, f.picks, renderer, transport,
		NotificationDispatcherConfig{BatchSize: 10, SendTimeout: time.Second}, logging.NewNop())
	svc.now = fixedClock
	return svc
}

func (f *pipelineFixture) queue(t *testing.T, userID int64, typ notification.Type, scheduledFor time.Time) notification.Request {
	t.Helper()

	req, err := notification.NewRequest(userID, typ, scheduledFor, fixtureNow.Add(-time.Hour))
	require.NoError(t, err)
	saved, err := f.notifications.Create(context.Background(), req)
	require.NoError(t, err)
	return saved
}

func (f *pipelineFixture) processed(t *testing.T) map[int64]bool {
	t.Helper()

	out := make(map[int64]bool)
	for _, req := range f.notifications.All() {
		out[req.ID] = req.Processed
	}
	return out
}

func TestNotificationDispatcher_SendsReminderForOutstandingPicks(t *testing.T) {
	t.Parallel()

	kickoff := fixtureNow.Add(48 * time.Hour)
	f := newPipelineFixture(t,
		[]game.Game{nflGame(1, "401", "Buffalo Bills", "Miami Dolphins", kickoff)},
		[]pick.Pick{
			officePick(1, memory.UserIDBob, 1, "Buffalo Bills", fixtureNow.Add(-time.Hour)),
			{ID: 2, UserID: memory.UserIDBob, GameID: 1, LeagueID: memory.LeagueIDFamily, PickedTeam: "Buffalo Bills", UpdatedAt: fixtureNow.Add(-time.Hour)},
		},
	)
	aliceReq := f.queue(t, memory.UserIDAlice, notification.TypeRemindPicks, fixtureNow.Add(-time.Minute))
	bobReq := f.queue(t, memory.UserIDBob, notification.TypeRemindPicks, fixtureNow.Add(-time.Minute))
	later := f.queue(t, memory.UserIDAdmin, notification.TypeRemindPicks, fixtureNow.Add(time.Hour))

	transport := usecasemock.NewMailer(t)
	transport.
		On("Send", mock.Anything, mock.MatchedBy(func(msg notification.Message) bool {
			return msg.To == "alice@example.com" &&
				strings.Contains(msg.TextBody, "Miami Dolphins @ Buffalo Bills") &&
				strings.Contains(msg.HTMLBody, "Miami Dolphins @ Buffalo Bills")
		})).
		Return(nil).
		Once()

	result, err := f.dispatcher(t, transport).DispatchDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, DispatchResult{Due: 2, Sent: 1, Skipped: 1}, result)

	state := f.processed(t)
	require.True(t, state[aliceReq.ID])
	require.True(t, state[bobReq.ID])
	require.False(t, state[later.ID])
}

func TestNotificationDispatcher_GameUpdateOnlyForStalePicks(t *testing.T) {
	t.Parallel()

	g := nflGame(1, "401", "Buffalo Bills", "Miami Dolphins", fixtureNow.Add(48*time.Hour))
	g.LastModified = fixtureNow.Add(-2 * time.Hour)
	f := newPipelineFixture(t,
		[]game.Game{g},
		[]pick.Pick{
			officePick(1, memory.UserIDAlice, 1, "Buffalo Bills", fixtureNow.Add(-24*time.Hour)),
			officePick(2, memory.UserIDBob, 1, "Miami Dolphins", fixtureNow.Add(-time.Hour)),
		},
	)
	f.queue(t, memory.UserIDAlice, notification.TypeGameUpdated, fixtureNow.Add(-time.Hour))
	f.queue(t, memory.UserIDBob, notification.TypeGameUpdated, fixtureNow.Add(-time.Hour))

	transport := usecasemock.NewMailer(t)
	transport.
		On("Send", mock.Anything, mock.MatchedBy(func(msg notification.Message) bool {
			return msg.To == "alice@example.com" && strings.Contains(msg.TextBody, "Buffalo Bills")
		})).
		Return(nil).
		Once()

	result, err := f.dispatcher(t, transport).DispatchDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, DispatchResult{Due: 2, Sent: 1, Skipped: 1}, result)
}

func TestNotificationDispatcher_TransportFailureIsNotRetried(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t, []game.Game{nflGame(1, "401", "Buffalo Bills", "Miami Dolphins", fixtureNow.Add(48*time.Hour))}, nil)
	req := f.queue(t, memory.UserIDAlice, notification.TypeRemindPicks, fixtureNow.Add(-time.Minute))

	transport := usecasemock.NewMailer(t)
	transport.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp: 421 service not available")).Once()
	svc := f.dispatcher(t, transport)

	result, err := svc.DispatchDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	require.True(t, f.processed(t)[req.ID])

	// the request is gone from the due list, the mailer is not called again
	result, err = svc.DispatchDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, DispatchResult{}, result)
}

type brokenRenderer struct{}

func (brokenRenderer) RenderReminder(user.User, []pick.Outstanding) (notification.Message, error) {
	return notification.Message{}, errors.New("template: reminder: missing key")
}

func (brokenRenderer) RenderGameUpdates(user.User, []pick.StaleGame) (notification.Message, error) {
	return notification.Message{}, errors.New("template: game updates: missing key")
}

func TestNotificationDispatcher_RenderFailureIsNotRetried(t *testing.T) {
	t.Parallel()

	g := nflGame(1, "401", "Buffalo Bills", "Miami Dolphins", fixtureNow.Add(48*time.Hour))
	g.LastModified = fixtureNow.Add(-time.Hour)
	f := newPipelineFixture(t, []game.Game{g},
		[]pick.Pick{officePick(1, memory.UserIDBob, 1, "Buffalo Bills", fixtureNow.Add(-24*time.Hour))},
	)
	reminder := f.queue(t, memory.UserIDAlice, notification.TypeRemindPicks, fixtureNow.Add(-time.Minute))
	update := f.queue(t, memory.UserIDBob, notification.TypeGameUpdated, fixtureNow.Add(-time.Minute))

	svc := NewNotificationDispatcherService(f.notifications, f.users, f.leagues, f.games, f.picks, brokenRenderer{}, usecasemock.NewMailer(t),
		NotificationDispatcherConfig{BatchSize: 10}, logging.NewNop())
	svc.now = fixedClock

	result, err := svc.DispatchDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, DispatchResult{Due: 2, Failed: 2}, result)

	state := f.processed(t)
	require.True(t, state[reminder.ID])
	require.True(t, state[update.ID])

	result, err = svc.DispatchDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, DispatchResult{}, result)
}

func TestNotificationDispatcher_NothingOutstandingAfterKickoff(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t, []game.Game{nflGame(1, "401", "Buffalo Bills", "Miami Dolphins", fixtureNow.Add(-time.Minute))}, nil)
	req := f.queue(t, memory.UserIDAlice, notification.TypeRemindPicks, fixtureNow.Add(-time.Hour))

	result, err := f.dispatcher(t, usecasemock.NewMailer(t)).DispatchDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, DispatchResult{Due: 1, Skipped: 1}, result)
	require.True(t, f.processed(t)[req.ID])
}

func TestNotificationDispatcher_MarkFailureLeavesRequestForNextRun(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture(t, []game.Game{nflGame(1, "401", "Buffalo Bills", "Miami Dolphins", fixtureNow.Add(48*time.Hour))}, nil)
	due := notification.Request{ID: 7, UserID: memory.UserIDAlice, Type: notification.TypeRemindPicks, ScheduledFor: fixtureNow.Add(-time.Minute)}

	repo := notificationmock.NewRepository(t)
	repo.On("ListDue", mock.Anything, fixtureNow, 10).Return([]notification.Request{due}, nil).Once()
	repo.On("MarkProcessed", mock.Anything, int64(7), fixtureNow).Return(errors.New("deadlock detected")).Once()

	renderer, err := mailer.NewRenderer(mailer.RendererConfig{})
	require.NoError(t, err)
	svc := NewNotificationDispatcherService(repo, f.users, f.leagues, f.games, f.picks, renderer, usecasemock.NewMailer(t),
		NotificationDispatcherConfig{BatchSize: 10}, logging.NewNop())
	svc.now = fixedClock

	result, err := svc.DispatchDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, DispatchResult{Due: 1, Unhandled: 1}, result)
}

func TestNotificationDispatcher_ListFailureIsReturned(t *testing.T) {
	t.Parallel()

	repo := notificationmock.NewRepository(t)
	repo.On("ListDue", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	svc := NewNotificationDispatcherService(repo, nil, nil, nil, nil, nil, nil, NotificationDispatcherConfig{}, logging.NewNop())
	_, err := svc.DispatchDue(context.Background())
	require.ErrorContains(t, err, "list due notifications")
}
