package usecase

import (
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/nwsl-stats/internal/domain/completion"
	"github.com/riskibarqy/nwsl-stats/internal/domain/ingestion"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	"github.com/riskibarqy/nwsl-stats/internal/domain/rawdata"
	"github.com/riskibarqy/nwsl-stats/internal/extraction"
	"github.com/riskibarqy/nwsl-stats/internal/normalization"
	"github.com/valyala/bytebufferpool"
)

// MatchOutcome is the final state of one match in a run.
type MatchOutcome struct {
	MatchID      string                     `json:"match_id"`
	State        ingestion.State            `json:"state"`
	Category     ingestion.FailureCategory  `json:"category,omitempty"`
	Reason       string                     `json:"reason,omitempty"`
	Format       extraction.Format          `json:"format,omitempty"`
	Attempts     int                        `json:"attempts"`
	Records      int                        `json:"records"`
	Write        participation.WriteSummary `json:"write"`
	WarningCount int                        `json:"warning_count"`

	document    *rawdata.Document
	warnings    []normalization.Warning
	ambiguities []Ambiguity
	rejected    []RejectedRecord
	fatal       error
}

func (o MatchOutcome) status(seasonID string) ingestion.Status {
	return ingestion.Status{
		MatchID:  o.MatchID,
		SeasonID: seasonID,
		State:    o.State,
		Category: o.Category,
		Reason:   o.Reason,
		Attempts: o.Attempts,
	}
}

// Ambiguity is a player row left unwritten because more than one stored
// player could own it.
type Ambiguity struct {
	MatchID     string   `json:"match_id"`
	EntityKey   string   `json:"entity_key"`
	Name        string   `json:"name"`
	TeamID      string   `json:"team_id"`
	Candidates  []string `json:"candidates"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type RejectedRecord struct {
	MatchID   string `json:"match_id"`
	EntityKey string `json:"entity_key"`
	Reason    string `json:"reason"`
}

type MatchFailure struct {
	MatchID  string                    `json:"match_id"`
	Category ingestion.FailureCategory `json:"category"`
	Reason   string                    `json:"reason"`
}

// RunReport is the machine-readable summary of a season run. Apart from the
// timestamps it depends only on the inputs, never on worker scheduling.
type RunReport struct {
	SeasonID          string                       `json:"season_id"`
	Workers           int                          `json:"workers"`
	StartedAt         time.Time                    `json:"started_at"`
	FinishedAt        time.Time                    `json:"finished_at"`
	MatchCount        int                          `json:"match_count"`
	StateCounts       map[ingestion.State]int      `json:"state_counts"`
	Write             participation.WriteSummary   `json:"write"`
	Matches           []MatchOutcome               `json:"matches"`
	Skipped           []string                     `json:"skipped,omitempty"`
	Failures          []MatchFailure               `json:"failures,omitempty"`
	Warnings          []normalization.Warning      `json:"warnings,omitempty"`
	WarningCounts     map[normalization.Reason]int `json:"warning_counts"`
	Ambiguities       []Ambiguity                  `json:"ambiguities,omitempty"`
	Rejected          []RejectedRecord             `json:"rejected,omitempty"`
	Completion        *completion.Record           `json:"completion,omitempty"`
	CompletionMatches []completion.Match           `json:"completion_matches,omitempty"`
	Error             string                       `json:"error,omitempty"`
}

func newRunReport(seasonID string, workers int, startedAt time.Time) RunReport {
	return RunReport{
		SeasonID:      seasonID,
		Workers:       workers,
		StartedAt:     startedAt.UTC(),
		StateCounts:   map[ingestion.State]int{},
		WarningCounts: map[normalization.Reason]int{},
	}
}

// addOutcomes expects outcomes sorted by match id.
func (r *RunReport) addOutcomes(outcomes []MatchOutcome) {
	for _, outcome := range outcomes {
		outcome.WarningCount = len(outcome.warnings)
		r.MatchCount++
		r.StateCounts[outcome.State]++
		r.Write.Add(outcome.Write)

		if outcome.State == ingestion.StateFailed {
			r.Failures = append(r.Failures, MatchFailure{
				MatchID:  outcome.MatchID,
				Category: outcome.Category,
				Reason:   outcome.Reason,
			})
		}
		for _, w := range outcome.warnings {
			r.WarningCounts[w.Reason]++
		}
		r.Warnings = append(r.Warnings, outcome.warnings...)
		r.Ambiguities = append(r.Ambiguities, outcome.ambiguities...)
		r.Rejected = append(r.Rejected, outcome.rejected...)
		r.Matches = append(r.Matches, outcome)
	}
}

// Outcome returns the recorded outcome of matchID.
func (r RunReport) Outcome(matchID string) (MatchOutcome, bool) {
	for _, outcome := range r.Matches {
		if outcome.MatchID == matchID {
			return outcome, true
		}
	}
	return MatchOutcome{}, false
}

// WriteJSON writes the report as indented JSON with sorted map keys.
func (r RunReport) WriteJSON(w io.Writer) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigStd.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
