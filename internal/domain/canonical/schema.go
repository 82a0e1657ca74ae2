package canonical

// Kind describes how a canonical field is coerced and validated.
type Kind string

const (
	KindText     Kind = "text"
	KindCategory Kind = "category"
	KindCountry  Kind = "country"
	KindInt      Kind = "int"
	KindCount    Kind = "count"
	KindFloat    Kind = "float"
	KindFraction Kind = "fraction"
)

// Numeric reports whether values of this kind are stored as numbers.
func (k Kind) Numeric() bool {
	switch k {
	case KindInt, KindCount, KindFloat, KindFraction:
		return true
	default:
		return false
	}
}

// Integral reports whether values of this kind are stored as integers.
func (k Kind) Integral() bool {
	return k == KindInt || k == KindCount
}

type Field string

const (
	PlayerName              Field = "player_name"
	ShirtNumber             Field = "shirt_number"
	Nationality             Field = "nationality"
	Position                Field = "position"
	AgeYears                Field = "age_years"
	MinutesPlayed           Field = "minutes_played"
	Goals                   Field = "goals"
	Assists                 Field = "assists"
	PenaltyKicksMade        Field = "penalty_kicks_made"
	PenaltyKicksAttempted   Field = "penalty_kicks_attempted"
	Shots                   Field = "shots"
	ShotsOnTarget           Field = "shots_on_target"
	YellowCards             Field = "yellow_cards"
	RedCards                Field = "red_cards"
	SecondYellowCards       Field = "second_yellow_cards"
	FoulsCommitted          Field = "fouls_committed"
	FoulsDrawn              Field = "fouls_drawn"
	Offsides                Field = "offsides"
	Crosses                 Field = "crosses"
	TacklesWon              Field = "tackles_won"
	Interceptions           Field = "interceptions"
	OwnGoals                Field = "own_goals"
	PenaltiesWon            Field = "penalties_won"
	PenaltiesConceded       Field = "penalties_conceded"
	Touches                 Field = "touches"
	Blocks                  Field = "blocks"
	ExpectedGoals           Field = "expected_goals"
	NonPenaltyExpectedGoals Field = "non_penalty_expected_goals"
	ExpectedAssistedGoals   Field = "expected_assisted_goals"
	ShotCreatingActions     Field = "shot_creating_actions"
	GoalCreatingActions     Field = "goal_creating_actions"
	PassesCompleted         Field = "passes_completed"
	PassesAttempted         Field = "passes_attempted"
	PassCompletionPct       Field = "pass_completion_pct"
	ProgressivePasses       Field = "progressive_passes"
	Carries                 Field = "carries"
	ProgressiveCarries      Field = "progressive_carries"
)

// FieldCount is the width of the canonical superset layout.
const FieldCount = 37

// FieldSpec declares the type and sanity bounds of one canonical column.
type FieldSpec struct {
	Name Field
	Kind Kind
	Min  float64
	// Max is ignored when zero.
	Max float64
	// Categories lists the accepted tokens for KindCategory fields.
	Categories []string
	// PlayerOnly fields are not reported on team total rows.
	PlayerOnly bool
}

// HasMax reports whether the field has an upper bound.
func (s FieldSpec) HasMax() bool {
	return s.Max != 0
}

var positionTokens = []string{
	"GK", "DF", "MF", "FW",
	"CB", "LB", "RB", "WB", "LWB", "RWB",
	"DM", "CM", "AM", "LM", "RM",
	"LW", "RW",
}

var schema = []FieldSpec{
	{Name: PlayerName, Kind: KindText, PlayerOnly: true},
	{Name: ShirtNumber, Kind: KindInt, Min: 0, Max: 99, PlayerOnly: true},
	{Name: Nationality, Kind: KindCountry, PlayerOnly: true},
	{Name: Position, Kind: KindCategory, Categories: positionTokens, PlayerOnly: true},
	{Name: AgeYears, Kind: KindInt, Min: 10, Max: 60, PlayerOnly: true},
	{Name: MinutesPlayed, Kind: KindInt, Min: 0, Max: 150, PlayerOnly: true},
	{Name: Goals, Kind: KindCount},
	{Name: Assists, Kind: KindCount},
	{Name: PenaltyKicksMade, Kind: KindCount},
	{Name: PenaltyKicksAttempted, Kind: KindCount},
	{Name: Shots, Kind: KindCount},
	{Name: ShotsOnTarget, Kind: KindCount},
	{Name: YellowCards, Kind: KindCount},
	{Name: RedCards, Kind: KindCount},
	{Name: SecondYellowCards, Kind: KindCount},
	{Name: FoulsCommitted, Kind: KindCount},
	{Name: FoulsDrawn, Kind: KindCount},
	{Name: Offsides, Kind: KindCount},
	{Name: Crosses, Kind: KindCount},
	{Name: TacklesWon, Kind: KindCount},
	{Name: Interceptions, Kind: KindCount},
	{Name: OwnGoals, Kind: KindCount},
	{Name: PenaltiesWon, Kind: KindCount},
	{Name: PenaltiesConceded, Kind: KindCount},
	{Name: Touches, Kind: KindCount},
	{Name: Blocks, Kind: KindCount},
	{Name: ExpectedGoals, Kind: KindFloat, Min: 0},
	{Name: NonPenaltyExpectedGoals, Kind: KindFloat, Min: 0},
	{Name: ExpectedAssistedGoals, Kind: KindFloat, Min: 0},
	{Name: ShotCreatingActions, Kind: KindCount},
	{Name: GoalCreatingActions, Kind: KindCount},
	{Name: PassesCompleted, Kind: KindCount},
	{Name: PassesAttempted, Kind: KindCount},
	{Name: PassCompletionPct, Kind: KindFraction, Min: 0, Max: 1},
	{Name: ProgressivePasses, Kind: KindCount},
	{Name: Carries, Kind: KindCount},
	{Name: ProgressiveCarries, Kind: KindCount},
}

var schemaIndex = func() map[Field]int {
	out := make(map[Field]int, len(schema))
	for i, spec := range schema {
		out[spec.Name] = i
	}
	return out
}()

// Fields returns the canonical schema in column order.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(schema))
	copy(out, schema)
	return out
}

func Lookup(name Field) (FieldSpec, bool) {
	idx, ok := schemaIndex[name]
	if !ok {
		return FieldSpec{}, false
	}
	return schema[idx], true
}

// PositionOf returns the column index of name, or -1.
func PositionOf(name Field) int {
	idx, ok := schemaIndex[name]
	if !ok {
		return -1
	}
	return idx
}
