package game

import (
	"strings"
	"time"
)

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusFinal      = "final"
)

// Game is the local copy of one external event. ExternalID is the only key
// used to correlate reconciliation passes.
type Game struct {
	ID           int64
	SportID      int64
	ExternalID   string
	HomeTeam     string
	AwayTeam     string
	HomeScore    int
	AwayScore    int
	Spread       *float64
	Favorite     string
	KickoffAt    time.Time
	Venue        string
	Season       string
	Week         int
	Status       string
	LastModified time.Time
}

// NormalizeStatus maps feed status names onto the local vocabulary. Unknown
// values are kept, lower-cased.
func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	switch status {
	case "", "STATUS_SCHEDULED", "SCHEDULED", "PRE":
		return StatusScheduled
	case "STATUS_IN_PROGRESS", "STATUS_HALFTIME", "STATUS_END_PERIOD", "IN_PROGRESS", "IN":
		return StatusInProgress
	case "STATUS_FINAL", "STATUS_FINAL_OVERTIME", "STATUS_FINAL_OT", "FINAL", "POST":
		return StatusFinal
	default:
		return strings.ToLower(strings.TrimPrefix(status, "STATUS_"))
	}
}

func (g Game) IsFinal() bool {
	return g.Status == StatusFinal
}

func (g Game) HasStarted(now time.Time) bool {
	return !g.KickoffAt.After(now)
}

func (g Game) HasTeam(name string) bool {
	return name != "" && (name == g.HomeTeam || name == g.AwayTeam)
}

// Winner returns the winning team name, or ok=false when scores are level.
func (g Game) Winner() (team string, ok bool) {
	switch {
	case g.HomeScore > g.AwayScore:
		return g.HomeTeam, true
	case g.AwayScore > g.HomeScore:
		return g.AwayTeam, true
	default:
		return "", false
	}
}

func (g Game) Margin() int {
	diff := g.HomeScore - g.AwayScore
	if diff < 0 {
		return -diff
	}
	return diff
}

// HasLine is true when both a non-zero spread and a favorite were posted.
func (g Game) HasLine() bool {
	return g.Spread != nil && *g.Spread != 0 && g.Favorite != ""
}

func (g Game) Matchup() string {
	return g.AwayTeam + " @ " + g.HomeTeam
}

func sameSpread(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
