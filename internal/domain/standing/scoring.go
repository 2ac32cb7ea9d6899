package standing

import (
	"sort"

	"github.com/riskibarqy/pickem-league/internal/domain/game"
)

const (
	CoverBonus    = 0.5
	UnderdogBonus = 1.0
)

// Tally is the raw result of replaying one member's picks.
type Tally struct {
	Wins   int
	Losses int
	Ties   int
	Bonus  float64
}

func (t Tally) Points() float64 {
	return float64(t.Wins) + t.Bonus
}

// Score replays picks (game id -> picked team) against final games. Games
// that are not final or have no pick are ignored.
func Score(tiebreaker bool, games []game.Game, picks map[int64]string) Tally {
	var out Tally
	for _, g := range games {
		if !g.IsFinal() {
			continue
		}
		picked, ok := picks[g.ID]
		if !ok || picked == "" {
			continue
		}

		winner, decided := g.Winner()
		switch {
		case !decided:
			out.Ties++
		case picked == winner:
			out.Wins++
			if tiebreaker {
				out.Bonus += bonus(g, picked)
			}
		default:
			out.Losses++
		}
	}
	return out
}

// bonus assumes picked already won the game.
func bonus(g game.Game, picked string) float64 {
	if !g.HasLine() {
		return 0
	}
	if picked == g.Favorite {
		if float64(g.Margin()) > *g.Spread {
			return CoverBonus
		}
		return 0
	}
	return UnderdogBonus
}

// SortTotals orders by points then wins, both descending. Ties fall back
// to user id to keep listings stable.
func SortTotals(items []Total) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Points != items[j].Points {
			return items[i].Points > items[j].Points
		}
		if items[i].Wins != items[j].Wins {
			return items[i].Wins > items[j].Wins
		}
		return items[i].UserID < items[j].UserID
	})
}
