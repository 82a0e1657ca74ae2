package memory

import (
	"context"

	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
)

type SeasonRepository struct {
	db *Database
}

func NewSeasonRepository(db *Database) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) Create(_ context.Context, item season.Season) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.seasons[item.ID]; exists {
		return false, nil
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.db.now().UTC()
	}
	r.db.seasons[item.ID] = item
	return true, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, id string) (season.Season, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.seasons[id]
	return item, ok, nil
}
