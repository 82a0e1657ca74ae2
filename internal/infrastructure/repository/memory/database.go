package memory

import (
	"sync"
	"time"

	"github.com/riskibarqy/nwsl-stats/internal/domain/completion"
	"github.com/riskibarqy/nwsl-stats/internal/domain/ingestion"
	"github.com/riskibarqy/nwsl-stats/internal/domain/match"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	"github.com/riskibarqy/nwsl-stats/internal/domain/player"
	"github.com/riskibarqy/nwsl-stats/internal/domain/rawdata"
	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	"github.com/riskibarqy/nwsl-stats/internal/domain/team"
)

// Database holds every table behind one lock so multi-table operations such as
// a match write see a consistent snapshot, the way a transaction would.
type Database struct {
	mu  sync.RWMutex
	now func() time.Time

	seasons       map[string]season.Season
	teams         map[string]team.Team
	teamAliases   map[string]team.Alias
	players       map[string]player.Player
	registrations map[string]player.Registration
	matches       map[string]match.Match
	records       map[participation.Key]participation.Record
	completions   map[string]completion.Record
	documents     map[string]rawdata.Document
	statuses      map[string]ingestion.Status
}

func NewDatabase() *Database {
	return &Database{
		now:           time.Now,
		seasons:       make(map[string]season.Season),
		teams:         make(map[string]team.Team),
		teamAliases:   make(map[string]team.Alias),
		players:       make(map[string]player.Player),
		registrations: make(map[string]player.Registration),
		matches:       make(map[string]match.Match),
		records:       make(map[participation.Key]participation.Record),
		completions:   make(map[string]completion.Record),
		documents:     make(map[string]rawdata.Document),
		statuses:      make(map[string]ingestion.Status),
	}
}

// SetClock replaces the timestamp source used for created/modified columns.
func (d *Database) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	d.now = now
}

// RecordCount is the number of stored participation rows.
func (d *Database) RecordCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}
