package league

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/domain/sport"
)

// League is a group of users picking the same games. The pipeline only reads it.
type League struct {
	ID                int64
	Name              string
	TiebreakerEnabled bool
	CreatedBy         int64
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	return nil
}

type Member struct {
	LeagueID int64
	UserID   int64
	IsAdmin  bool
}

// ActiveSport is one (league, sport) pairing with the sport enabled.
type ActiveSport struct {
	LeagueID   int64
	LeagueName string
	Sport      sport.Sport
}
