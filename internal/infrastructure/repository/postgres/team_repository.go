package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nwsl-stats/internal/domain/team"
	qb "github.com/riskibarqy/nwsl-stats/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID string) (team.Team, bool, error) {
	if externalID == "" {
		return team.Team{}, false, nil
	}
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *TeamRepository) GetByNaturalKey(ctx context.Context, naturalKey string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("natural_key", naturalKey))
}

func (r *TeamRepository) getOne(ctx context.Context, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, wrap(err, "build select team query")
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, wrap(err, "select team")
	}

	return teamFromRow(row), true, nil
}

// FindByAlias matches the normalized name against team names and every recorded alias.
func (r *TeamRepository) FindByAlias(ctx context.Context, normalizedName string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Expr(
			"(normalized_name = ? OR id IN (SELECT team_id FROM team_aliases WHERE normalized_name = ?))",
			normalizedName, normalizedName,
		)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, wrap(err, "build select teams by alias query")
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrap(err, "select teams by alias=%s", normalizedName)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	query, args, err := qb.InsertModel("teams", teamInsertModel{
		ID:             item.ID,
		ExternalID:     nullableString(item.ExternalID),
		Name:           item.Name,
		NormalizedName: item.NormalizedName,
		NaturalKey:     item.NaturalKey,
	}, "")
	if err != nil {
		return wrap(err, "build insert team query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrap(err, "insert team key=%s", item.NaturalKey)
	}
	return nil
}

func (r *TeamRepository) UpsertAlias(ctx context.Context, alias team.Alias) error {
	query, args, err := qb.InsertModel("team_aliases", teamAliasInsertModel{
		TeamID:         alias.TeamID,
		SeasonID:       alias.SeasonID,
		Name:           alias.Name,
		NormalizedName: alias.NormalizedName,
	}, "ON CONFLICT (team_id, season_id, normalized_name) DO UPDATE SET name = EXCLUDED.name")
	if err != nil {
		return wrap(err, "build upsert team alias query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrap(err, "upsert team alias team=%s season=%s", alias.TeamID, alias.SeasonID)
	}
	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:             row.ID,
		ExternalID:     row.ExternalID.String,
		Name:           row.Name,
		NormalizedName: row.NormalizedName,
		NaturalKey:     row.NaturalKey,
	}
}
