package participation

import "context"

type Repository interface {
	// WriteMatch verifies every reference, then upserts all records in one
	// transaction. A missing season, match or entity is reported as an error
	// marked storeerr.ErrForeignKey and nothing is written.
	WriteMatch(ctx context.Context, write MatchWrite) (WriteSummary, error)
	ListByMatch(ctx context.Context, matchID string) ([]Record, error)
	CoverageBySeason(ctx context.Context, seasonID string) ([]Coverage, error)
	CountBySeason(ctx context.Context, seasonID string) (int, error)
}
