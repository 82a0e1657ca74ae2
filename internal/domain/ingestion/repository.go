package ingestion

import "context"

type Repository interface {
	Save(ctx context.Context, item Status) error
	ListBySeason(ctx context.Context, seasonID string) ([]Status, error)
}
