package sport

// Sport is one external competition feed (e.g. football/nfl) and the
// season/week the pipeline currently tracks for it.
type Sport struct {
	ID            int64
	Name          string
	ExternalID    string
	CurrentSeason string
	CurrentWeek   int
}

// IsCurrent reports whether season/week match the stored pointer.
func (s Sport) IsCurrent(season string, week int) bool {
	return s.CurrentSeason == season && s.CurrentWeek == week
}

// HasCurrentWeek is false until the first successful sync sets a pointer.
func (s Sport) HasCurrentWeek() bool {
	return s.CurrentSeason != "" && s.CurrentWeek > 0
}
