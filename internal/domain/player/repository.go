package player

import "context"

// Repository describes player identity persistence. Create returns an error
// marked storeerr.ErrDuplicateKey when the natural key is already taken.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (Player, bool, error)
	GetByNaturalKey(ctx context.Context, naturalKey string) (Player, bool, error)
	// ListRegistered returns registrations of teamID in any of seasonIDs, ordered by player id.
	ListRegistered(ctx context.Context, teamID string, seasonIDs []string) ([]Registered, error)
	Create(ctx context.Context, item Player) error
	UpsertRegistration(ctx context.Context, item Registration) error
}
