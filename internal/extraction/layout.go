package extraction

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/nwsl-stats/internal/domain/canonical"
)

type Format string

const (
	FormatLegacy Format = "LEGACY"
	FormatModern Format = "MODERN"
)

// ParseFormat accepts "legacy"/"modern" in any case; empty means no override.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case string(FormatLegacy):
		return FormatLegacy, nil
	case string(FormatModern):
		return FormatModern, nil
	default:
		return "", fmt.Errorf("unknown format %q", raw)
	}
}

// Locator addresses one stat cell: the per-team table kind and the data-stat attribute.
type Locator struct {
	Table string
	Stat  string
}

func (l Locator) String() string {
	return l.Table + "/" + l.Stat
}

type FieldMapping struct {
	Field     canonical.Field
	Locator   Locator
	Transform Transform
}

// Layout is the declarative mapping table of one source format.
type Layout struct {
	Format  Format
	Fields  []FieldMapping
	Markers []Locator
}

func (l Layout) Mapping(field canonical.Field) (FieldMapping, bool) {
	for _, m := range l.Fields {
		if m.Field == field {
			return m, true
		}
	}
	return FieldMapping{}, false
}

func summary(stat string) Locator { return Locator{Table: summaryTable, Stat: stat} }
func misc(stat string) Locator    { return Locator{Table: "misc", Stat: stat} }

func mapped(field canonical.Field, loc Locator) FieldMapping {
	return FieldMapping{Field: field, Locator: loc, Transform: Identity}
}

func transformed(field canonical.Field, loc Locator, transform Transform) FieldMapping {
	return FieldMapping{Field: field, Locator: loc, Transform: transform}
}

// LegacyLayout covers 2013-2018 reports: one summary table per team, 24 fields.
var LegacyLayout = Layout{
	Format: FormatLegacy,
	Fields: []FieldMapping{
		mapped(canonical.PlayerName, summary("player")),
		mapped(canonical.ShirtNumber, summary("shirtnumber")),
		mapped(canonical.Nationality, summary("nationality")),
		mapped(canonical.Position, summary("position")),
		transformed(canonical.AgeYears, summary("age"), AgeYearsDays),
		transformed(canonical.MinutesPlayed, summary("minutes"), Duration),
		mapped(canonical.Goals, summary("goals")),
		mapped(canonical.Assists, summary("assists")),
		mapped(canonical.PenaltyKicksMade, summary("pens_made")),
		mapped(canonical.PenaltyKicksAttempted, summary("pens_att")),
		mapped(canonical.Shots, summary("shots")),
		mapped(canonical.ShotsOnTarget, summary("shots_on_target")),
		mapped(canonical.YellowCards, summary("cards_yellow")),
		mapped(canonical.RedCards, summary("cards_red")),
		mapped(canonical.SecondYellowCards, summary("cards_yellow_red")),
		mapped(canonical.FoulsCommitted, summary("fouls")),
		mapped(canonical.FoulsDrawn, summary("fouled")),
		mapped(canonical.Offsides, summary("offsides")),
		mapped(canonical.Crosses, summary("crosses")),
		mapped(canonical.TacklesWon, summary("tackles_won")),
		mapped(canonical.Interceptions, summary("interceptions")),
		mapped(canonical.OwnGoals, summary("own_goals")),
		mapped(canonical.PenaltiesWon, summary("pens_won")),
		mapped(canonical.PenaltiesConceded, summary("pens_conceded")),
	},
	Markers: []Locator{summary("fouls"), summary("tackles_won")},
}

// ModernLayout covers 2019+ reports: summary plus misc tables, all 37 fields.
var ModernLayout = Layout{
	Format: FormatModern,
	Fields: []FieldMapping{
		mapped(canonical.PlayerName, summary("player")),
		mapped(canonical.ShirtNumber, summary("shirtnumber")),
		mapped(canonical.Nationality, summary("nationality")),
		mapped(canonical.Position, summary("position")),
		transformed(canonical.AgeYears, summary("age"), AgeYearsDays),
		transformed(canonical.MinutesPlayed, summary("minutes"), Duration),
		mapped(canonical.Goals, summary("goals")),
		mapped(canonical.Assists, summary("assists")),
		mapped(canonical.PenaltyKicksMade, summary("pens_made")),
		mapped(canonical.PenaltyKicksAttempted, summary("pens_att")),
		mapped(canonical.Shots, summary("shots")),
		mapped(canonical.ShotsOnTarget, summary("shots_on_target")),
		mapped(canonical.YellowCards, summary("cards_yellow")),
		mapped(canonical.RedCards, summary("cards_red")),
		mapped(canonical.SecondYellowCards, misc("cards_yellow_red")),
		mapped(canonical.FoulsCommitted, misc("fouls")),
		mapped(canonical.FoulsDrawn, misc("fouled")),
		mapped(canonical.Offsides, misc("offsides")),
		mapped(canonical.Crosses, misc("crosses")),
		mapped(canonical.TacklesWon, misc("tackles_won")),
		mapped(canonical.Interceptions, summary("interceptions")),
		mapped(canonical.OwnGoals, misc("own_goals")),
		mapped(canonical.PenaltiesWon, misc("pens_won")),
		mapped(canonical.PenaltiesConceded, misc("pens_conceded")),
		mapped(canonical.Touches, summary("touches")),
		mapped(canonical.Blocks, summary("blocks")),
		mapped(canonical.ExpectedGoals, summary("xg")),
		mapped(canonical.NonPenaltyExpectedGoals, summary("npxg")),
		mapped(canonical.ExpectedAssistedGoals, summary("xg_assist")),
		mapped(canonical.ShotCreatingActions, summary("sca")),
		mapped(canonical.GoalCreatingActions, summary("gca")),
		mapped(canonical.PassesCompleted, summary("passes_completed")),
		mapped(canonical.PassesAttempted, summary("passes")),
		transformed(canonical.PassCompletionPct, summary("passes_pct"), Percentage),
		mapped(canonical.ProgressivePasses, summary("progressive_passes")),
		mapped(canonical.Carries, summary("carries")),
		mapped(canonical.ProgressiveCarries, summary("progressive_carries")),
	},
	Markers: []Locator{summary("xg"), summary("touches")},
}

var layouts = map[Format]Layout{
	FormatLegacy: LegacyLayout,
	FormatModern: ModernLayout,
}

func LayoutFor(format Format) (Layout, bool) {
	layout, ok := layouts[format]
	return layout, ok
}
