package ingestion

import "time"

type State string

const (
	StatePending     State = "PENDING"
	StateFetching    State = "FETCHING"
	StateParsing     State = "PARSING"
	StateNormalizing State = "NORMALIZING"
	StateResolving   State = "RESOLVING"
	StateWriting     State = "WRITING"
	StateDone        State = "DONE"
	StateFailed      State = "FAILED"
)

// Terminal reports whether a match in this state is finished for the run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

type FailureCategory string

const (
	FailureFetch               FailureCategory = "fetch_error"
	FailureParse               FailureCategory = "parse_error"
	FailureResolutionAmbiguous FailureCategory = "resolution_ambiguous"
	FailureWriteConflict       FailureCategory = "write_conflict"
)

// Status is the last persisted pipeline state of a match.
type Status struct {
	MatchID   string
	SeasonID  string
	State     State
	Category  FailureCategory
	Reason    string
	Attempts  int
	UpdatedAt time.Time
}
