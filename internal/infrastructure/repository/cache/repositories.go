package cache

import (
	"context"

	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	basecache "github.com/riskibarqy/nwsl-stats/internal/platform/cache"
)

type cachedSeasonByID struct {
	value  season.Season
	exists bool
}

// SeasonRepository caches season lookups. Seasons never change once created,
// so only Create needs to drop an entry.
type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store[cachedSeasonByID]
}

func NewSeasonRepository(next season.Repository) *SeasonRepository {
	return &SeasonRepository{
		next:  next,
		cache: basecache.NewStore[cachedSeasonByID](0),
	}
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) (bool, error) {
	created, err := r.next.Create(ctx, item)
	r.cache.Delete(ctx, seasonKey(item.ID))
	return created, err
}

func (r *SeasonRepository) GetByID(ctx context.Context, id string) (season.Season, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, seasonKey(id), func(ctx context.Context) (cachedSeasonByID, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedSeasonByID{}, err
		}
		return cachedSeasonByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}
	if !cached.exists {
		// a miss may be seeded later; do not pin it
		r.cache.Delete(ctx, seasonKey(id))
	}
	return cached.value, cached.exists, nil
}

func seasonKey(id string) string {
	return "season:id:" + id
}
