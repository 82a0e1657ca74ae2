package season

import "context"

type Repository interface {
	// Create inserts the season and reports false when it already existed.
	Create(ctx context.Context, item Season) (bool, error)
	GetByID(ctx context.Context, id string) (Season, bool, error)
}
