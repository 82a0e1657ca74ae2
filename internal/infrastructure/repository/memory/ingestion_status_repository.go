package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/nwsl-stats/internal/domain/ingestion"
)

type IngestionStatusRepository struct {
	db *Database
}

func NewIngestionStatusRepository(db *Database) *IngestionStatusRepository {
	return &IngestionStatusRepository{db: db}
}

func (r *IngestionStatusRepository) Save(_ context.Context, item ingestion.Status) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = r.db.now().UTC()
	}
	r.db.statuses[item.MatchID] = item
	return nil
}

func (r *IngestionStatusRepository) ListBySeason(_ context.Context, seasonID string) ([]ingestion.Status, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]ingestion.Status, 0)
	for _, item := range r.db.statuses {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}
