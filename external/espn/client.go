package espn

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/platform/resilience"
	"github.com/riskibarqy/pickem-league/internal/usecase"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL      = "https://site.api.espn.com/apis/site/v2/sports"
	defaultTimeout      = 20 * time.Second
	maxResponseBodySize = 6 << 20
)

var errESPNTransient = crerr.New("espn transient failure")

var kickoffLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z",
}

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads weekly scoreboards from the ESPN site API.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
	// backoff is the wait before retry attempt n (0-based).
	backoff func(attempt int) time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "pickem-league",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBodySize,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt+1) * time.Second
		},
	}
}

// FetchEvents returns the scoreboard for one sport/season/week as raw
// records. Events without a competition are dropped here; everything else
// is left to game.NewRecord to accept or reject.
func (c *Client) FetchEvents(ctx context.Context, item sport.Sport, season string, week int) ([]game.Record, error) {
	externalID := strings.Trim(strings.TrimSpace(item.ExternalID), "/")
	if externalID == "" {
		return nil, crerr.Newf("sport id=%d has no external id", item.ID)
	}
	if week <= 0 {
		return nil, crerr.Newf("week must be greater than zero")
	}

	path := "/" + externalID + "/scoreboard"
	query := url.Values{}
	query.Set("dates", strings.TrimSpace(season))
	query.Set("week", strconv.Itoa(week))

	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scoreboard sport=%s season=%s week=%d: %w", externalID, season, week, err)
	}

	out := make([]game.Record, 0, len(envelope.Events))
	for _, event := range envelope.Events {
		rec, ok := mapEvent(event)
		if !ok {
			c.logger.DebugContext(ctx, "skip scoreboard event without competition", "event_id", event.ID)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// The flight is shared by every caller of the same URL, so it must not
	// inherit the first caller's cancellation. Each caller still stops
	// waiting when its own context ends.
	results := c.flight.DoChan(fullURL, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightBudget())
		defer cancel()

		raw, reqErr := c.executeRequest(flightCtx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-results:
	}
	if res.Err != nil {
		return res.Err
	}

	raw, ok := res.Val.([]byte)
	if !ok {
		return crerr.Newf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode scoreboard payload")
	}
	return nil
}

// flightBudget covers every attempt plus the waits between them.
func (c *Client) flightBudget() time.Duration {
	budget := time.Duration(c.maxRetries+1) * c.timeout
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		budget += c.backoff(attempt)
	}
	return budget
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, status, err := c.get(ctx, fullURL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Mark(crerr.Wrap(err, "send request"), errESPNTransient)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Mark(crerr.Newf("provider status=%d body=%s", status, abbreviateBody(raw)), errESPNTransient)
		default:
			return nil, crerr.Newf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.httpClient.DoTimeout(req, resp, timeout); err != nil {
		return nil, 0, err
	}

	// resp is released on return; keep our own copy of the body.
	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func mapEvent(event scoreboardEvent) (game.Record, bool) {
	if len(event.Competitions) == 0 {
		return game.Record{}, false
	}
	comp := event.Competitions[0]

	rec := game.Record{
		ExternalID: strings.TrimSpace(event.ID),
		Venue:      strings.TrimSpace(comp.Venue.FullName),
		Status:     firstNonEmpty(comp.Status.Type.Name, event.Status.Type.Name),
		KickoffAt:  parseKickoff(firstNonEmpty(event.Date, comp.Date)),
	}

	for _, side := range comp.Competitors {
		name := teamName(side.Team)
		score := parseScore(side.Score)
		switch strings.ToLower(strings.TrimSpace(side.HomeAway)) {
		case "home":
			rec.HomeTeam, rec.HomeScore = name, score
		case "away":
			rec.AwayTeam, rec.AwayScore = name, score
		}
	}

	if len(comp.Odds) > 0 {
		line := comp.Odds[0]
		if line.Spread != nil {
			spread := *line.Spread
			rec.Spread = &spread
		}
		rec.Favorite = favoriteOf(line, rec.HomeTeam, rec.AwayTeam)
	}
	return rec, true
}

// favoriteOf prefers the explicit per-side flags. Without them the spread
// sign decides: the feed quotes it from the home side, so negative means
// the home team is laying points.
func favoriteOf(line odds, home, away string) string {
	switch {
	case line.HomeTeamOdds.Favorite && !line.AwayTeamOdds.Favorite:
		return home
	case line.AwayTeamOdds.Favorite && !line.HomeTeamOdds.Favorite:
		return away
	case line.Spread == nil || *line.Spread == 0:
		return ""
	case *line.Spread < 0:
		return home
	default:
		return away
	}
}

func teamName(t team) string {
	return firstNonEmpty(t.DisplayName, t.Name, t.Abbreviation)
}

func parseScore(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	score, err := strconv.Atoi(value)
	if err != nil {
		if f, ferr := strconv.ParseFloat(value, 64); ferr == nil {
			return int(f)
		}
		return 0
	}
	return score
}

// parseKickoff returns the zero time when the value is missing or
// unparseable; the record constructor rejects those.
func parseKickoff(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range kickoffLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errESPNTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
