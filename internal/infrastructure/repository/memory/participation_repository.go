package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

type ParticipationRepository struct {
	db *Database
}

func NewParticipationRepository(db *Database) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

func (r *ParticipationRepository) WriteMatch(_ context.Context, write participation.MatchWrite) (participation.WriteSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.checkReferences(write); err != nil {
		return participation.WriteSummary{}, err
	}

	seen := make(map[participation.Key]struct{}, len(write.Records))
	for _, rec := range write.Records {
		if _, dup := seen[rec.Key]; dup {
			return participation.WriteSummary{}, storeerr.Mark(
				fmt.Errorf("write match %s: record %s appears twice", write.MatchID, rec.Key),
				storeerr.ErrConstraint,
			)
		}
		seen[rec.Key] = struct{}{}
	}

	now := r.db.now().UTC()
	var summary participation.WriteSummary
	for _, rec := range write.Records {
		existing, ok := r.db.records[rec.Key]
		switch {
		case !ok:
			rec.CreatedAt = now
			summary.Inserted++
		case existing.ContentHash == rec.ContentHash:
			rec.CreatedAt = existing.CreatedAt
			summary.Unchanged++
		default:
			rec.CreatedAt = existing.CreatedAt
			summary.Updated++
		}
		rec.LastModifiedAt = now
		r.db.records[rec.Key] = rec
	}

	return summary, nil
}

func (r *ParticipationRepository) checkReferences(write participation.MatchWrite) error {
	if _, ok := r.db.seasons[write.SeasonID]; !ok {
		return storeerr.Mark(fmt.Errorf("write match %s: season %s not found", write.MatchID, write.SeasonID), storeerr.ErrForeignKey)
	}
	m, ok := r.db.matches[write.MatchID]
	if !ok {
		return storeerr.Mark(fmt.Errorf("write match %s: match not found", write.MatchID), storeerr.ErrForeignKey)
	}
	if m.SeasonID != write.SeasonID {
		return storeerr.Mark(fmt.Errorf("write match %s: match belongs to season %s", write.MatchID, m.SeasonID), storeerr.ErrForeignKey)
	}

	for _, rec := range write.Records {
		if rec.MatchID != write.MatchID {
			return storeerr.Mark(fmt.Errorf("write match %s: record %s targets another match", write.MatchID, rec.Key), storeerr.ErrConstraint)
		}
		var found bool
		switch rec.Category {
		case participation.CategoryPlayer:
			_, found = r.db.players[rec.EntityID]
		case participation.CategoryTeam:
			_, found = r.db.teams[rec.EntityID]
		}
		if !found {
			return storeerr.Mark(fmt.Errorf("write match %s: %s entity %s not found", write.MatchID, rec.Category, rec.EntityID), storeerr.ErrForeignKey)
		}
	}
	return nil
}

func (r *ParticipationRepository) ListByMatch(_ context.Context, matchID string) ([]participation.Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]participation.Record, 0)
	for key, rec := range r.db.records {
		if key.MatchID == matchID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].EntityID < out[j].EntityID
	})
	return out, nil
}

func (r *ParticipationRepository) CoverageBySeason(_ context.Context, seasonID string) ([]participation.Coverage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	byMatch := make(map[string]*participation.Coverage)
	for key, rec := range r.db.records {
		m, ok := r.db.matches[key.MatchID]
		if !ok || m.SeasonID != seasonID {
			continue
		}
		cov, ok := byMatch[key.MatchID]
		if !ok {
			cov = &participation.Coverage{MatchID: key.MatchID}
			byMatch[key.MatchID] = cov
		}
		cov.Records++
		if key.Category == participation.CategoryTeam {
			cov.TeamRecords++
			continue
		}
		if rec.PopulatedCount > 0 {
			cov.PopulatedRecords++
		}
	}

	out := make([]participation.Coverage, 0, len(byMatch))
	for _, cov := range byMatch {
		out = append(out, *cov)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}

func (r *ParticipationRepository) CountBySeason(_ context.Context, seasonID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for key := range r.db.records {
		if m, ok := r.db.matches[key.MatchID]; ok && m.SeasonID == seasonID {
			count++
		}
	}
	return count, nil
}
