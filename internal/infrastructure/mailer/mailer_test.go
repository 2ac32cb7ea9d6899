package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/notification"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_GameUpdatesListsEveryGame(t *testing.T) {
	t.Parallel()

	renderer, err := NewRenderer(RendererConfig{PicksURL: "https://picks.example.com/picks"})
	require.NoError(t, err)

	spread := 3.5
	kickoff := time.Date(2026, 9, 13, 17, 0, 0, 0, time.UTC)
	msg, err := renderer.RenderGameUpdates(
		user.User{Username: "alice", Email: "alice@example.com"},
		[]pick.StaleGame{
			{Game: game.Game{HomeTeam: "Bills", AwayTeam: "Jets", KickoffAt: kickoff, Venue: "Highmark", Spread: &spread, Favorite: "Bills"}, PickedTeam: "Jets", LeagueName: "Office <Pool>"},
			{Game: game.Game{HomeTeam: "Chiefs", AwayTeam: "Raiders", KickoffAt: kickoff.Add(3 * time.Hour)}, PickedTeam: "Chiefs", LeagueName: "Family"},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, gameUpdatesSubject, msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Jets @ Bills")
	assert.Contains(t, msg.HTMLBody, "Raiders @ Chiefs")
	assert.Contains(t, msg.HTMLBody, "Office &lt;Pool&gt;")
	assert.Contains(t, msg.TextBody, "Bills -3.5")
	assert.Contains(t, msg.TextBody, "your pick: Jets (Office <Pool>)")
	assert.Contains(t, msg.TextBody, "https://picks.example.com/picks")
}

func TestRenderer_ReminderGroupsByLeague(t *testing.T) {
	t.Parallel()

	renderer, err := NewRenderer(RendererConfig{})
	require.NoError(t, err)

	kickoff := time.Date(2026, 9, 13, 17, 0, 0, 0, time.UTC)
	msg, err := renderer.RenderReminder(
		user.User{Username: "bob", DisplayName: "Bobby", Email: "bob@example.com"},
		[]pick.Outstanding{
			{LeagueID: 1, LeagueName: "Office", SportName: "NFL", Game: game.Game{HomeTeam: "A", AwayTeam: "B", KickoffAt: kickoff}},
			{LeagueID: 2, LeagueName: "Family", SportName: "NFL", Game: game.Game{HomeTeam: "A", AwayTeam: "B", KickoffAt: kickoff}},
			{LeagueID: 1, LeagueName: "Office", SportName: "NFL", Game: game.Game{HomeTeam: "C", AwayTeam: "D", KickoffAt: kickoff}},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, reminderSubject, msg.Subject)
	assert.Contains(t, msg.TextBody, "Hello Bobby!")
	assert.Equal(t, 1, strings.Count(msg.TextBody, "Office - NFL"))
	assert.Equal(t, 1, strings.Count(msg.TextBody, "Family - NFL"))
	assert.Contains(t, msg.TextBody, "D @ C")
	assert.NotContains(t, msg.TextBody, "Make your picks:")
}

func TestSMTPMailer_ComposeBuildsMultipartMessage(t *testing.T) {
	t.Parallel()

	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", FromEmail: "noreply@example.com", FromName: "Pick'em"}, nil)
	m.now = func() time.Time { return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) }

	raw, err := m.compose(notification.Message{
		To:       "alice@example.com",
		Subject:  "Hello",
		TextBody: "plain body",
		HTMLBody: "<p>html body</p>",
	})
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "To: alice@example.com\r\n")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "plain body")
	assert.Contains(t, body, "<p>html body</p>")
	assert.Less(t, strings.Index(body, "plain body"), strings.Index(body, "<p>html body</p>"))
}
