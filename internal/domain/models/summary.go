package models

import (
	"encoding/json"
	"strings"
)

// TeamTotal is one summary row per team across the queried window, plus a
// synthetic "Total" row. The JSON keys are the wire contract consumed by the
// dashboard and must not change.
type TeamTotal struct {
	TeamCode           string  `json:"Team_Code"`
	In                 float64 `json:"In"`
	Out                float64 `json:"Out"`
	TotalCreditsLoaded float64 `json:"Total_Credits_Loaded"`
	Bonus              float64 `json:"Bonus"`
	BonusPct           float64 `json:"Bonus_%"`
	HoldingPct         float64 `json:"Holding_%"`
}

// DailyTotal aggregates all teams for one cycle date. The daily grain carries
// no bonus percentage; that asymmetry is part of the wire contract.
type DailyTotal struct {
	Date               string  `json:"date"`
	In                 float64 `json:"In"`
	Out                float64 `json:"Out"`
	TotalCreditsLoaded float64 `json:"Total_Credits_Loaded"`
	Bonus              float64 `json:"Bonus"`
	HoldingPct         float64 `json:"Holding_%"`
}

// CycleSummary is the response envelope of the team-cycle summary endpoint.
type CycleSummary struct {
	Data  []TeamTotal  `json:"data"`
	Daily []DailyTotal `json:"daily"`
}

// SummaryFilter carries the resolved request filters. Dates are inclusive
// YYYY-MM-DD bounds applied to the derived cycle date; empty strings mean
// unbounded. An empty TeamCodes slice means all teams.
type SummaryFilter struct {
	StartDate string
	EndDate   string
	TeamCodes []string
}

// StringList accepts either a JSON array of strings or a single comma-joined
// string, the two encodings clients use for team_codes.
type StringList []string

// UnmarshalJSON implements the lenient decoding described above.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = normalizeList(many)
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = normalizeList(strings.Split(one, ","))
	return nil
}

func normalizeList(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseTeamCodes splits a comma-joined query value into clean team codes.
func ParseTeamCodes(value string) []string {
	if value == "" {
		return nil
	}
	return normalizeList(strings.Split(value, ","))
}
