package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrMalformedRecord = errors.New("malformed event record")

// Record is one event as reported by the external feed, after the
// constructor has checked the fields the pipeline depends on.
type Record struct {
	ExternalID string `validate:"required,max=64"`
	HomeTeam   string `validate:"required,max=100"`
	AwayTeam   string `validate:"required,max=100,nefield=HomeTeam"`
	HomeScore  int    `validate:"gte=0"`
	AwayScore  int    `validate:"gte=0"`
	Spread     *float64
	Favorite   string `validate:"max=100"`
	KickoffAt  time.Time
	Venue      string `validate:"max=200"`
	Status     string
}

var recordValidator = validator.New(validator.WithRequiredStructEnabled())

// NewRecord trims and validates a raw feed record. A favorite that names
// neither team is dropped so it can never earn a bonus.
func NewRecord(raw Record) (Record, error) {
	rec := raw
	rec.ExternalID = strings.TrimSpace(rec.ExternalID)
	rec.HomeTeam = strings.TrimSpace(rec.HomeTeam)
	rec.AwayTeam = strings.TrimSpace(rec.AwayTeam)
	rec.Favorite = strings.TrimSpace(rec.Favorite)
	rec.Venue = strings.TrimSpace(rec.Venue)
	rec.Status = NormalizeStatus(rec.Status)

	if err := recordValidator.Struct(rec); err != nil {
		return Record{}, fmt.Errorf("%w: external_id=%q: %v", ErrMalformedRecord, rec.ExternalID, err)
	}
	if rec.KickoffAt.IsZero() {
		return Record{}, fmt.Errorf("%w: external_id=%q: kickoff time is required", ErrMalformedRecord, rec.ExternalID)
	}
	rec.KickoffAt = rec.KickoffAt.UTC()

	if rec.Spread != nil {
		if math.IsNaN(*rec.Spread) || math.IsInf(*rec.Spread, 0) {
			return Record{}, fmt.Errorf("%w: external_id=%q: spread is not a number", ErrMalformedRecord, rec.ExternalID)
		}
		spread := math.Abs(*rec.Spread)
		rec.Spread = &spread
	}
	if rec.Favorite != "" && rec.Favorite != rec.HomeTeam && rec.Favorite != rec.AwayTeam {
		rec.Favorite = ""
	}
	return rec, nil
}

// Change describes what one reconciliation pass did to a game.
type Change struct {
	Modified bool
	// Material is set when kickoff, venue or spread moved.
	Material bool
}

func FromRecord(rec Record, sportID int64, season string, week int, now time.Time) Game {
	return Game{
		SportID:      sportID,
		ExternalID:   rec.ExternalID,
		HomeTeam:     rec.HomeTeam,
		AwayTeam:     rec.AwayTeam,
		HomeScore:    rec.HomeScore,
		AwayScore:    rec.AwayScore,
		Spread:       cloneSpread(rec.Spread),
		Favorite:     rec.Favorite,
		KickoffAt:    rec.KickoffAt,
		Venue:        rec.Venue,
		Season:       season,
		Week:         week,
		Status:       rec.Status,
		LastModified: now.UTC(),
	}
}

// Apply overwrites the mutable fields with rec. LastModified only moves when
// some field actually differs, so replaying a batch leaves the row untouched.
func (g Game) Apply(rec Record, season string, week int, now time.Time) (Game, Change) {
	next := g
	next.HomeTeam = rec.HomeTeam
	next.AwayTeam = rec.AwayTeam
	next.HomeScore = rec.HomeScore
	next.AwayScore = rec.AwayScore
	next.Spread = cloneSpread(rec.Spread)
	next.Favorite = rec.Favorite
	next.KickoffAt = rec.KickoffAt
	next.Venue = rec.Venue
	next.Season = season
	next.Week = week
	next.Status = rec.Status

	change := Change{
		Material: !g.KickoffAt.Equal(next.KickoffAt) ||
			g.Venue != next.Venue ||
			!sameSpread(g.Spread, next.Spread),
	}
	change.Modified = change.Material ||
		g.HomeTeam != next.HomeTeam ||
		g.AwayTeam != next.AwayTeam ||
		g.HomeScore != next.HomeScore ||
		g.AwayScore != next.AwayScore ||
		g.Favorite != next.Favorite ||
		g.Season != next.Season ||
		g.Week != next.Week ||
		g.Status != next.Status

	if change.Modified {
		next.LastModified = now.UTC()
	}
	return next, change
}

func cloneSpread(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
