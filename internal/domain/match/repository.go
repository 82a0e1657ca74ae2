package match

import "context"

type Repository interface {
	// Upsert creates the match or refreshes its date and roster size.
	Upsert(ctx context.Context, item Match) error
	GetByID(ctx context.Context, id string) (Match, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Match, error)
}
