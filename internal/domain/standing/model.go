package standing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidScope = errors.New("invalid standings scope")

// Scope identifies one standings computation.
type Scope struct {
	LeagueID int64
	SportID  int64
	Season   string
	Week     int
}

func (s Scope) Validate() error {
	switch {
	case s.LeagueID <= 0:
		return fmt.Errorf("%w: league id is required", ErrInvalidScope)
	case s.SportID <= 0:
		return fmt.Errorf("%w: sport id is required", ErrInvalidScope)
	case strings.TrimSpace(s.Season) == "":
		return fmt.Errorf("%w: season is required", ErrInvalidScope)
	case s.Week <= 0:
		return fmt.Errorf("%w: week must be > 0", ErrInvalidScope)
	}
	return nil
}

func (s Scope) String() string {
	return fmt.Sprintf("league=%d sport=%d season=%s week=%d", s.LeagueID, s.SportID, s.Season, s.Week)
}

// Row is one member's result for a scope. Every recompute overwrites it whole.
type Row struct {
	Scope
	UserID    int64
	Wins      int
	Losses    int
	Ties      int
	Points    float64
	UpdatedAt time.Time
}

// Total is the aggregate of a member's rows over one or many weeks.
type Total struct {
	UserID      int64
	Username    string
	DisplayName string
	Wins        int
	Losses      int
	Ties        int
	Points      float64
}

// Query selects rows to aggregate. A nil Week sums the whole season.
type Query struct {
	LeagueID int64
	SportID  int64
	Season   string
	Week     *int
}
