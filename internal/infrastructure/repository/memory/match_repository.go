package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/nwsl-stats/internal/domain/match"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

type MatchRepository struct {
	db *Database
}

func NewMatchRepository(db *Database) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.seasons[item.SeasonID]; !ok {
		return storeerr.Mark(fmt.Errorf("upsert match id=%s: season %s not found", item.ID, item.SeasonID), storeerr.ErrForeignKey)
	}
	for _, teamID := range []string{item.HomeTeamID, item.AwayTeamID} {
		if _, ok := r.db.teams[teamID]; !ok {
			return storeerr.Mark(fmt.Errorf("upsert match id=%s: team %s not found", item.ID, teamID), storeerr.ErrForeignKey)
		}
	}
	if existing, ok := r.db.matches[item.ID]; ok {
		if existing.SeasonID != item.SeasonID || existing.HomeTeamID != item.HomeTeamID || existing.AwayTeamID != item.AwayTeamID {
			return storeerr.Mark(fmt.Errorf("upsert match id=%s: stored season or teams differ", item.ID), storeerr.ErrConstraint)
		}
	}

	r.db.matches[item.ID] = item
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.matches[id]
	return item, ok, nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, seasonID string) ([]match.Match, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.db.matches {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
