package postgres

import (
	"time"

	"github.com/riskibarqy/nwsl-stats/internal/domain/canonical"
	"github.com/riskibarqy/nwsl-stats/internal/domain/match"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
)

var testTime = time.Date(2016, 4, 16, 20, 0, 0, 0, time.UTC)

func testMatch() match.Match {
	date := testTime
	return match.Match{
		ID:         "m1",
		SeasonID:   "nwsl-2016",
		HomeTeamID: "t-1",
		AwayTeamID: "t-2",
		MatchDate:  &date,
		RosterSize: 28,
	}
}

func testRecord(entityID string, category participation.Category, goals int64) participation.Record {
	values := canonical.NewRecord()
	if category == participation.CategoryPlayer {
		values.Set(canonical.PlayerName, canonical.TextValue("J. Smith"))
		values.Set(canonical.Position, canonical.TextValue("FW"))
	}
	values.Set(canonical.Goals, canonical.IntValue(goals))
	values.Set(canonical.PassCompletionPct, canonical.FloatValue(0.837))
	return participation.NewRecord(participation.Key{MatchID: "m1", EntityID: entityID, Category: category}, values)
}
