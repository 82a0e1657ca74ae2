package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	qb "github.com/riskibarqy/nwsl-stats/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) (bool, error) {
	query, args, err := qb.InsertModel("seasons", seasonInsertModel{
		ID:                 item.ID,
		Year:               item.Year,
		League:             item.League,
		ExpectedMatchCount: item.ExpectedMatchCount,
	}, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return false, wrap(err, "build insert season query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrap(err, "insert season id=%s", item.ID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, wrap(err, "rows affected insert season id=%s", item.ID)
	}

	return affected > 0, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, id string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, wrap(err, "build select season query")
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, wrap(err, "select season id=%s", id)
	}

	return season.Season{
		ID:                 row.ID,
		Year:               row.Year,
		League:             row.League,
		ExpectedMatchCount: row.ExpectedMatchCount,
		CreatedAt:          row.CreatedAt,
	}, true, nil
}
