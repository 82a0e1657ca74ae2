package memory

import (
	"context"

	"github.com/riskibarqy/nwsl-stats/internal/domain/rawdata"
)

type RawDocumentRepository struct {
	db *Database
}

func NewRawDocumentRepository(db *Database) *RawDocumentRepository {
	return &RawDocumentRepository{db: db}
}

func (r *RawDocumentRepository) UpsertMany(_ context.Context, items []rawdata.Document) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, item := range items {
		if item.MatchID == "" {
			continue
		}
		r.db.documents[item.MatchID] = item
	}
	return nil
}

// Get is used by tests and dry runs to inspect the archive.
func (r *RawDocumentRepository) Get(_ context.Context, matchID string) (rawdata.Document, bool) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.documents[matchID]
	return item, ok
}
