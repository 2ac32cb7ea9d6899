package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/pickem-league/internal/domain/game"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/sport"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

type syncWeekRequest struct {
	SportID int64  `json:"sport_id" validate:"required,gt=0"`
	Season  string `json:"season" validate:"required,max=16"`
	Week    int    `json:"week" validate:"required,gt=0"`
}

type calculateStandingsJobRequest struct {
	LeagueID int64  `json:"league_id" validate:"omitempty,gt=0"`
	SportID  int64  `json:"sport_id" validate:"required,gt=0"`
	Season   string `json:"season" validate:"required,max=16"`
	Week     int    `json:"week" validate:"required,gt=0"`
}

type calculateStandingsRequest struct {
	SportID int64  `json:"sport_id" validate:"required,gt=0"`
	Season  string `json:"season" validate:"required,max=16"`
	Week    int    `json:"week" validate:"required,gt=0"`
}

type submitPickRequest struct {
	GameID     int64  `json:"game_id" validate:"required,gt=0"`
	PickedTeam string `json:"picked_team" validate:"required,max=120"`
}

type sportDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ExternalID    string `json:"external_id"`
	CurrentSeason string `json:"current_season,omitempty"`
	CurrentWeek   int    `json:"current_week,omitempty"`
}

type gameDTO struct {
	ID           int64    `json:"id"`
	SportID      int64    `json:"sport_id"`
	ExternalID   string   `json:"external_id"`
	HomeTeam     string   `json:"home_team"`
	AwayTeam     string   `json:"away_team"`
	HomeScore    int      `json:"home_score"`
	AwayScore    int      `json:"away_score"`
	Spread       *float64 `json:"spread,omitempty"`
	Favorite     string   `json:"favorite,omitempty"`
	KickoffAt    string   `json:"kickoff_at"`
	Venue        string   `json:"venue,omitempty"`
	Season       string   `json:"season"`
	Week         int      `json:"week"`
	Status       string   `json:"status"`
	LastModified string   `json:"last_modified"`
}

type pickDTO struct {
	ID         int64  `json:"id"`
	GameID     int64  `json:"game_id"`
	LeagueID   int64  `json:"league_id"`
	PickedTeam string `json:"picked_team"`
	UpdatedAt  string `json:"updated_at"`
}

type standingDTO struct {
	Rank        int     `json:"rank"`
	UserID      int64   `json:"user_id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name,omitempty"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties"`
	Points      float64 `json:"points"`
}

type standingsCalculatedDTO struct {
	LeagueID   int64         `json:"league_id"`
	SportID    int64         `json:"sport_id"`
	Season     string        `json:"season"`
	Week       int           `json:"week"`
	FinalGames int           `json:"final_games"`
	Rows       []standingDTO `json:"rows"`
}

// decodeJSONBody decodes a strict JSON body. An empty body leaves dst untouched.
func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

// queryInt returns 0 when the parameter is absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func sportToDTO(item sport.Sport) sportDTO {
	return sportDTO{
		ID:            item.ID,
		Name:          item.Name,
		ExternalID:    item.ExternalID,
		CurrentSeason: item.CurrentSeason,
		CurrentWeek:   item.CurrentWeek,
	}
}

func gameToDTO(item game.Game) gameDTO {
	return gameDTO{
		ID:           item.ID,
		SportID:      item.SportID,
		ExternalID:   item.ExternalID,
		HomeTeam:     item.HomeTeam,
		AwayTeam:     item.AwayTeam,
		HomeScore:    item.HomeScore,
		AwayScore:    item.AwayScore,
		Spread:       item.Spread,
		Favorite:     item.Favorite,
		KickoffAt:    formatTime(item.KickoffAt),
		Venue:        item.Venue,
		Season:       item.Season,
		Week:         item.Week,
		Status:       item.Status,
		LastModified: formatTime(item.LastModified),
	}
}

func pickToDTO(item pick.Pick) pickDTO {
	return pickDTO{
		ID:         item.ID,
		GameID:     item.GameID,
		LeagueID:   item.LeagueID,
		PickedTeam: item.PickedTeam,
		UpdatedAt:  formatTime(item.UpdatedAt),
	}
}

// totalsToDTO ranks totals in the order given; equal points and wins share a rank.
func totalsToDTO(items []standing.Total) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for i, item := range items {
		rank := i + 1
		if i > 0 {
			prev := items[i-1]
			if prev.Points == item.Points && prev.Wins == item.Wins {
				rank = out[i-1].Rank
			}
		}
		out = append(out, standingDTO{
			Rank:        rank,
			UserID:      item.UserID,
			Username:    item.Username,
			DisplayName: item.DisplayName,
			Wins:        item.Wins,
			Losses:      item.Losses,
			Ties:        item.Ties,
			Points:      item.Points,
		})
	}
	return out
}

func rowsToTotals(rows []standing.Row) []standing.Total {
	out := make([]standing.Total, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Total{
			UserID: row.UserID,
			Wins:   row.Wins,
			Losses: row.Losses,
			Ties:   row.Ties,
			Points: row.Points,
		})
	}
	standing.SortTotals(out)
	return out
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
