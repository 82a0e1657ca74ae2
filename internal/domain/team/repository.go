package team

import "context"

// Repository describes team identity persistence. Create returns an error
// marked storeerr.ErrDuplicateKey when the natural key is already taken.
type Repository interface {
	GetByID(ctx context.Context, id string) (Team, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Team, bool, error)
	GetByNaturalKey(ctx context.Context, naturalKey string) (Team, bool, error)
	FindByAlias(ctx context.Context, normalizedName string) ([]Team, error)
	Create(ctx context.Context, item Team) error
	UpsertAlias(ctx context.Context, alias Alias) error
}
