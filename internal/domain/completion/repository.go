package completion

import "context"

type Repository interface {
	Upsert(ctx context.Context, item Record) error
	GetBySeason(ctx context.Context, seasonID string) (Record, bool, error)
}
