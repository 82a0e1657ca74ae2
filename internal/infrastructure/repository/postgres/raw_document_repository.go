package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nwsl-stats/internal/domain/rawdata"
	qb "github.com/riskibarqy/nwsl-stats/internal/platform/querybuilder"
)

type RawDocumentRepository struct {
	db *sqlx.DB
}

func NewRawDocumentRepository(db *sqlx.DB) *RawDocumentRepository {
	return &RawDocumentRepository{db: db}
}

func (r *RawDocumentRepository) UpsertMany(ctx context.Context, items []rawdata.Document) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrap(err, "begin tx upsert raw documents")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := rawDocumentInsertModel{
			MatchID:     item.MatchID,
			SeasonID:    item.SeasonID,
			Format:      item.Format,
			PayloadHash: item.PayloadHash,
			ByteSize:    item.ByteSize,
			FetchedAt:   item.FetchedAt,
		}

		query, args, err := qb.InsertModel("raw_documents", insertModel, `ON CONFLICT (match_id)
DO UPDATE SET
    season_id = EXCLUDED.season_id,
    format = EXCLUDED.format,
    payload_hash = EXCLUDED.payload_hash,
    byte_size = EXCLUDED.byte_size,
    fetched_at = EXCLUDED.fetched_at`)
		if err != nil {
			return wrap(err, "build upsert raw document query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return wrap(err, "upsert raw document match=%s", item.MatchID)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrap(err, "commit upsert raw documents tx")
	}

	return nil
}

type rawDocumentInsertModel struct {
	MatchID     string    `db:"match_id"`
	SeasonID    string    `db:"season_id"`
	Format      string    `db:"format"`
	PayloadHash string    `db:"payload_hash"`
	ByteSize    int       `db:"byte_size"`
	FetchedAt   time.Time `db:"fetched_at"`
}
