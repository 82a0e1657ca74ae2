package participation

import (
	"fmt"
	"time"

	"github.com/riskibarqy/nwsl-stats/internal/domain/canonical"
)

type Category string

const (
	CategoryPlayer Category = "player"
	CategoryTeam   Category = "team"
)

func (c Category) Valid() bool {
	return c == CategoryPlayer || c == CategoryTeam
}

// Key identifies exactly one stored row.
type Key struct {
	MatchID  string
	EntityID string
	Category Category
}

func (k Key) String() string {
	return k.MatchID + "/" + string(k.Category) + "/" + k.EntityID
}

// Record is one entity's canonical statistics for one match.
type Record struct {
	Key
	Values         canonical.Record
	ContentHash    string
	PopulatedCount int
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// NewRecord derives the hash and populated count from values.
func NewRecord(key Key, values canonical.Record) Record {
	return Record{
		Key:            key,
		Values:         values,
		ContentHash:    values.Hash(),
		PopulatedCount: values.PopulatedCount(),
	}
}

func (r Record) Validate() error {
	if r.MatchID == "" || r.EntityID == "" {
		return fmt.Errorf("participation record requires match and entity ids")
	}
	if !r.Category.Valid() {
		return fmt.Errorf("invalid participation category %q", r.Category)
	}
	if r.ContentHash == "" {
		return fmt.Errorf("participation record %s has no content hash", r.Key)
	}

	return nil
}

// MatchWrite is everything persisted for one match in one transaction.
type MatchWrite struct {
	SeasonID string
	MatchID  string
	Records  []Record
}

type WriteSummary struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

func (s WriteSummary) Total() int {
	return s.Inserted + s.Updated + s.Unchanged
}

func (s *WriteSummary) Add(other WriteSummary) {
	s.Inserted += other.Inserted
	s.Updated += other.Updated
	s.Unchanged += other.Unchanged
}

// Coverage aggregates the stored records of one match.
type Coverage struct {
	MatchID          string
	Records          int
	PopulatedRecords int
	TeamRecords      int
}
