package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nwsl-stats/internal/domain/ingestion"
	qb "github.com/riskibarqy/nwsl-stats/internal/platform/querybuilder"
)

type ingestionStatusTableModel struct {
	MatchID         string         `db:"match_id"`
	SeasonID        string         `db:"season_id"`
	State           string         `db:"state"`
	FailureCategory sql.NullString `db:"failure_category"`
	Reason          sql.NullString `db:"reason"`
	Attempts        int            `db:"attempts"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type ingestionStatusInsertModel struct {
	MatchID         string    `db:"match_id"`
	SeasonID        string    `db:"season_id"`
	State           string    `db:"state"`
	FailureCategory *string   `db:"failure_category"`
	Reason          *string   `db:"reason"`
	Attempts        int       `db:"attempts"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type IngestionStatusRepository struct {
	db *sqlx.DB
}

func NewIngestionStatusRepository(db *sqlx.DB) *IngestionStatusRepository {
	return &IngestionStatusRepository{db: db}
}

func (r *IngestionStatusRepository) Save(ctx context.Context, item ingestion.Status) error {
	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	model := ingestionStatusInsertModel{
		MatchID:         item.MatchID,
		SeasonID:        item.SeasonID,
		State:           string(item.State),
		FailureCategory: nullableString(string(item.Category)),
		Reason:          nullableString(item.Reason),
		Attempts:        item.Attempts,
		UpdatedAt:       updatedAt,
	}
	cols, err := qb.ModelColumns(model)
	if err != nil {
		return wrap(err, "list ingestion status columns")
	}
	query, args, err := qb.InsertModel("match_ingestion_status", model, qb.OnConflictUpdate([]string{"match_id"}, cols))
	if err != nil {
		return wrap(err, "build upsert ingestion status query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrap(err, "upsert ingestion status match=%s", item.MatchID)
	}
	return nil
}

func (r *IngestionStatusRepository) ListBySeason(ctx context.Context, seasonID string) ([]ingestion.Status, error) {
	query, args, err := qb.Select("*").From("match_ingestion_status").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("match_id").
		ToSQL()
	if err != nil {
		return nil, wrap(err, "build select ingestion status query")
	}

	var rows []ingestionStatusTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrap(err, "select ingestion status season=%s", seasonID)
	}

	out := make([]ingestion.Status, 0, len(rows))
	for _, row := range rows {
		out = append(out, ingestion.Status{
			MatchID:   row.MatchID,
			SeasonID:  row.SeasonID,
			State:     ingestion.State(row.State),
			Category:  ingestion.FailureCategory(row.FailureCategory.String),
			Reason:    row.Reason.String,
			Attempts:  row.Attempts,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}
