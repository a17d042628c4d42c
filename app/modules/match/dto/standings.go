package matchdto

import "time"

// StandingRow is one competitor's line in a match standings report.
type StandingRow struct {
	Rank        int     `json:"rank"`
	Competitor  string  `json:"competitor"`
	Division    string  `json:"division,omitempty"`
	PowerFactor string  `json:"power_factor,omitempty"`
	Points      float64 `json:"points"`
	Percentage  float64 `json:"percentage"`
}

// MatchStandings is a match's final standings, ordered best-first.
type MatchStandings struct {
	Match string        `json:"match"`
	Date  time.Time     `json:"date,omitempty"`
	Rows  []StandingRow `json:"rows"`
}
