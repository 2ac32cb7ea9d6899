package mailer

import (
	htmltemplate "html/template"
	"io"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/notification"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	"github.com/valyala/bytebufferpool"
)

const (
	reminderSubject    = "Reminder: make your picks for this week"
	gameUpdatesSubject = "Game updates affecting your picks"
	kickoffLayout      = "Mon Jan 2, 15:04 MST"
)

type RendererConfig struct {
	AppName  string
	PicksURL string
	Location *time.Location
}

// Renderer builds reminder and game update emails in HTML and plain text.
type Renderer struct {
	cfg  RendererConfig
	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	if strings.TrimSpace(cfg.AppName) == "" {
		cfg.AppName = "Pick'em League"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	html, err := htmltemplate.New("html").Parse(htmlTemplates)
	if err != nil {
		return nil, crerr.Wrap(err, "parse html templates")
	}
	text, err := texttemplate.New("text").Parse(textTemplates)
	if err != nil {
		return nil, crerr.Wrap(err, "parse text templates")
	}
	return &Renderer{cfg: cfg, html: html, text: text}, nil
}

type gameLine struct {
	Matchup    string
	Kickoff    string
	Venue      string
	Line       string
	PickedTeam string
	LeagueName string
}

type leagueBlock struct {
	LeagueName string
	SportName  string
	Games      []gameLine
}

type templateData struct {
	AppName  string
	Name     string
	PicksURL string
	Leagues  []leagueBlock
	Games    []gameLine
}

func (r *Renderer) RenderReminder(recipient user.User, outstanding []pick.Outstanding) (notification.Message, error) {
	data := r.baseData(recipient)
	index := make(map[int64]int)
	for _, item := range outstanding {
		pos, ok := index[item.LeagueID]
		if !ok {
			pos = len(data.Leagues)
			index[item.LeagueID] = pos
			data.Leagues = append(data.Leagues, leagueBlock{LeagueName: item.LeagueName, SportName: item.SportName})
		}
		data.Leagues[pos].Games = append(data.Leagues[pos].Games, r.line(item.Game, "", item.LeagueName))
	}
	return r.render(recipient, reminderSubject, "reminder", data)
}

func (r *Renderer) RenderGameUpdates(recipient user.User, stale []pick.StaleGame) (notification.Message, error) {
	data := r.baseData(recipient)
	for _, item := range stale {
		data.Games = append(data.Games, r.line(item.Game, item.PickedTeam, item.LeagueName))
	}
	return r.render(recipient, gameUpdatesSubject, "game_updates", data)
}

func (r *Renderer) baseData(recipient user.User) templateData {
	name := strings.TrimSpace(recipient.DisplayName)
	if name == "" {
		name = recipient.Username
	}
	return templateData{AppName: r.cfg.AppName, Name: name, PicksURL: r.cfg.PicksURL}
}

func (r *Renderer) line(g game.Game, picked, leagueName string) gameLine {
	out := gameLine{
		Matchup:    g.Matchup(),
		Kickoff:    g.KickoffAt.In(r.cfg.Location).Format(kickoffLayout),
		Venue:      g.Venue,
		PickedTeam: picked,
		LeagueName: leagueName,
	}
	if out.Venue == "" {
		out.Venue = "TBD"
	}
	if g.HasLine() {
		out.Line = g.Favorite + " -" + strconv.FormatFloat(*g.Spread, 'f', -1, 64)
	}
	return out
}

func (r *Renderer) render(recipient user.User, subject, name string, data templateData) (notification.Message, error) {
	htmlBody, err := execute(func(w io.Writer) error { return r.html.ExecuteTemplate(w, name, data) })
	if err != nil {
		return notification.Message{}, crerr.Wrapf(err, "render %s html", name)
	}
	textBody, err := execute(func(w io.Writer) error { return r.text.ExecuteTemplate(w, name, data) })
	if err != nil {
		return notification.Message{}, crerr.Wrapf(err, "render %s text", name)
	}
	return notification.Message{
		To:       recipient.Email,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}, nil
}

func execute(fn func(w io.Writer) error) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := fn(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
