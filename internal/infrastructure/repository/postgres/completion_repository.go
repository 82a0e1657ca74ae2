package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nwsl-stats/internal/domain/completion"
	qb "github.com/riskibarqy/nwsl-stats/internal/platform/querybuilder"
)

type completionTableModel struct {
	SeasonID           string    `db:"season_id"`
	Expected           int       `db:"expected"`
	Actual             int       `db:"actual"`
	Ratio              float64   `db:"ratio"`
	MatchCount         int       `db:"match_count"`
	MatchesWithRecords int       `db:"matches_with_records"`
	CompleteMatches    int       `db:"complete_matches"`
	ComputedAt         time.Time `db:"computed_at"`
}

type CompletionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

func (r *CompletionRepository) Upsert(ctx context.Context, item completion.Record) error {
	model := completionTableModel(item)
	cols, err := qb.ModelColumns(model)
	if err != nil {
		return wrap(err, "list completion columns")
	}
	query, args, err := qb.InsertModel("completion_records", model, qb.OnConflictUpdate([]string{"season_id"}, cols))
	if err != nil {
		return wrap(err, "build upsert completion query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrap(err, "upsert completion season=%s", item.SeasonID)
	}
	return nil
}

func (r *CompletionRepository) GetBySeason(ctx context.Context, seasonID string) (completion.Record, bool, error) {
	query, args, err := qb.Select("*").From("completion_records").
		Where(qb.Eq("season_id", seasonID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return completion.Record{}, false, wrap(err, "build select completion query")
	}

	var row completionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return completion.Record{}, false, nil
		}
		return completion.Record{}, false, wrap(err, "select completion season=%s", seasonID)
	}
	return completion.Record(row), true, nil
}
