package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/nwsl-stats/internal/domain/completion"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

type CompletionRepository struct {
	db *Database
}

func NewCompletionRepository(db *Database) *CompletionRepository {
	return &CompletionRepository{db: db}
}

func (r *CompletionRepository) Upsert(_ context.Context, item completion.Record) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.seasons[item.SeasonID]; !ok {
		return storeerr.Mark(fmt.Errorf("upsert completion: season %s not found", item.SeasonID), storeerr.ErrForeignKey)
	}
	r.db.completions[item.SeasonID] = item
	return nil
}

func (r *CompletionRepository) GetBySeason(_ context.Context, seasonID string) (completion.Record, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.completions[seasonID]
	return item, ok, nil
}
