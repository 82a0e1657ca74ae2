package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	"github.com/riskibarqy/nwsl-stats/internal/normalization"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

// ParticipationWriter persists one match's records in a single transaction.
// Re-writing identical input leaves row count and values unchanged.
type ParticipationWriter struct {
	repo   participation.Repository
	logger *logging.Logger
}

func NewParticipationWriter(repo participation.Repository, logger *logging.Logger) *ParticipationWriter {
	if logger == nil {
		logger = logging.Default()
	}

	return &ParticipationWriter{
		repo:   repo,
		logger: logger,
	}
}

func (w *ParticipationWriter) WriteMatch(ctx context.Context, write participation.MatchWrite) (participation.WriteSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipationWriter.WriteMatch")
	defer span.End()

	if write.SeasonID == "" || write.MatchID == "" {
		return participation.WriteSummary{}, fmt.Errorf("%w: season id and match id are required", ErrInvalidInput)
	}
	for _, rec := range write.Records {
		if err := rec.Validate(); err != nil {
			return participation.WriteSummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if rec.ContentHash != rec.Values.Hash() {
			return participation.WriteSummary{}, fmt.Errorf("%w: record %s hash does not match its values", ErrInvalidInput, rec.Key)
		}
	}

	summary, err := w.repo.WriteMatch(ctx, write)
	if err != nil {
		switch {
		case storeerr.IsUnavailable(err):
			return participation.WriteSummary{}, fmt.Errorf("%w: match=%s: %w", ErrStoreUnavailable, write.MatchID, err)
		default:
			w.logger.WarnContext(ctx, "participation write rejected",
				"match_id", write.MatchID,
				"records", len(write.Records),
				"integrity", storeerr.IsIntegrity(err),
				"error", err,
			)
			return participation.WriteSummary{}, fmt.Errorf("%w: match=%s: %w", ErrWriteConflict, write.MatchID, err)
		}
	}

	w.logger.DebugContext(ctx, "participation written",
		"match_id", write.MatchID,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
	)
	return summary, nil
}

// DeduplicateRecords keeps one record per key, preferring the most populated
// one, and reports every dropped row. Only rows repeating one external id share
// a key here; name-only rows that collide are excluded before resolution.
func DeduplicateRecords(records []participation.Record) ([]participation.Record, []normalization.Warning) {
	index := make(map[participation.Key]int, len(records))
	out := make([]participation.Record, 0, len(records))
	var warnings []normalization.Warning

	for _, rec := range records {
		pos, dup := index[rec.Key]
		if !dup {
			index[rec.Key] = len(out)
			out = append(out, rec)
			continue
		}

		dropped := rec
		if rec.PopulatedCount > out[pos].PopulatedCount {
			dropped = out[pos]
			out[pos] = rec
		}
		warnings = append(warnings, normalization.Warning{
			MatchID:   rec.MatchID,
			EntityKey: string(rec.Category) + ":" + rec.EntityID,
			EntityID:  rec.EntityID,
			Reason:    normalization.ReasonDuplicateRow,
			Detail:    fmt.Sprintf("dropped row with %d populated fields", dropped.PopulatedCount),
		})
	}
	return out, warnings
}
