package rawdata

import "context"

type Repository interface {
	UpsertMany(ctx context.Context, items []Document) error
}
