package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nwsl-stats/internal/domain/player"
	qb "github.com/riskibarqy/nwsl-stats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID string) (player.Player, bool, error) {
	if externalID == "" {
		return player.Player{}, false, nil
	}
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *PlayerRepository) GetByNaturalKey(ctx context.Context, naturalKey string) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("natural_key", naturalKey))
}

func (r *PlayerRepository) getOne(ctx context.Context, cond qb.Condition) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, wrap(err, "build select player query")
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, wrap(err, "select player")
	}

	return player.Player{
		ID:             row.ID,
		ExternalID:     row.ExternalID.String,
		Name:           row.Name,
		NormalizedName: row.NormalizedName,
		NaturalKey:     row.NaturalKey,
	}, true, nil
}

func (r *PlayerRepository) ListRegistered(ctx context.Context, teamID string, seasonIDs []string) ([]player.Registered, error) {
	if len(seasonIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select(
		"r.player_id",
		"p.external_id AS player_external_id",
		"p.name AS player_name",
		"p.normalized_name AS player_normalized_name",
		"p.natural_key AS player_natural_key",
		"r.team_id",
		"r.season_id",
		"r.name",
		"r.normalized_name",
		"r.shirt_number",
	).
		From("player_registrations r JOIN players p ON p.id = r.player_id").
		Where(
			qb.Eq("r.team_id", teamID),
			qb.InStrings("r.season_id", seasonIDs),
		).
		OrderBy("r.player_id", "r.season_id", "r.normalized_name").
		ToSQL()
	if err != nil {
		return nil, wrap(err, "build select registered players query")
	}

	var rows []registeredRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrap(err, "select registered players team=%s", teamID)
	}

	out := make([]player.Registered, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Registered{
			Player: player.Player{
				ID:             row.PlayerID,
				ExternalID:     row.PlayerExternalID.String,
				Name:           row.PlayerName,
				NormalizedName: row.PlayerNormalized,
				NaturalKey:     row.PlayerNaturalKey,
			},
			Registration: player.Registration{
				PlayerID:       row.PlayerID,
				TeamID:         row.TeamID,
				SeasonID:       row.SeasonID,
				Name:           row.Name,
				NormalizedName: row.NormalizedName,
				ShirtNumber:    nullInt64ToIntPtr(row.ShirtNumber),
			},
		})
	}
	return out, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	query, args, err := qb.InsertModel("players", playerInsertModel{
		ID:             item.ID,
		ExternalID:     nullableString(item.ExternalID),
		Name:           item.Name,
		NormalizedName: item.NormalizedName,
		NaturalKey:     item.NaturalKey,
	}, "")
	if err != nil {
		return wrap(err, "build insert player query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrap(err, "insert player key=%s", item.NaturalKey)
	}
	return nil
}

func (r *PlayerRepository) UpsertRegistration(ctx context.Context, item player.Registration) error {
	query, args, err := qb.InsertModel("player_registrations", registrationInsertModel{
		PlayerID:       item.PlayerID,
		TeamID:         item.TeamID,
		SeasonID:       item.SeasonID,
		Name:           item.Name,
		NormalizedName: item.NormalizedName,
		ShirtNumber:    nullableInt(item.ShirtNumber),
	}, `ON CONFLICT (player_id, team_id, season_id, normalized_name) DO UPDATE SET
    name = EXCLUDED.name,
    shirt_number = COALESCE(EXCLUDED.shirt_number, player_registrations.shirt_number)`)
	if err != nil {
		return wrap(err, "build upsert registration query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrap(err, "upsert registration player=%s team=%s season=%s", item.PlayerID, item.TeamID, item.SeasonID)
	}
	return nil
}
