package espn

// scoreboardEnvelope is the subset of the site API scoreboard payload the
// reconciler needs.
type scoreboardEnvelope struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Name         string        `json:"name"`
	Status       eventStatus   `json:"status"`
	Competitions []competition `json:"competitions"`
}

type competition struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Venue       venue        `json:"venue"`
	Competitors []competitor `json:"competitors"`
	Odds        []odds       `json:"odds"`
	Status      eventStatus  `json:"status"`
}

type venue struct {
	FullName string `json:"fullName"`
}

type competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     team   `json:"team"`
}

type team struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation"`
}

type odds struct {
	Details      string   `json:"details"`
	Spread       *float64 `json:"spread"`
	HomeTeamOdds sideOdds `json:"homeTeamOdds"`
	AwayTeamOdds sideOdds `json:"awayTeamOdds"`
}

type sideOdds struct {
	Favorite bool `json:"favorite"`
}

type eventStatus struct {
	Type statusType `json:"type"`
}

type statusType struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}
