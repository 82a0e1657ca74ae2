package completion

import "time"

// Record is the season completeness snapshot. Everything except ComputedAt is a
// pure function of the stored matches and records.
type Record struct {
	SeasonID           string    `json:"season_id"`
	Expected           int       `json:"expected"`
	Actual             int       `json:"actual"`
	Ratio              float64   `json:"ratio"`
	MatchCount         int       `json:"match_count"`
	MatchesWithRecords int       `json:"matches_with_records"`
	CompleteMatches    int       `json:"complete_matches"`
	ComputedAt         time.Time `json:"computed_at"`
}

// Equivalent compares two snapshots ignoring when they were computed.
func (r Record) Equivalent(other Record) bool {
	r.ComputedAt = time.Time{}
	other.ComputedAt = time.Time{}
	return r == other
}

// Match is the per-match breakdown behind a season record.
type Match struct {
	MatchID     string `json:"match_id"`
	Expected    int    `json:"expected"`
	Actual      int    `json:"actual"`
	TeamRecords int    `json:"team_records"`
	Complete    bool   `json:"complete"`
}
