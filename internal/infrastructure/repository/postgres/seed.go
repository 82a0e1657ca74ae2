package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nwsl-stats/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the known seasons of league. Existing rows are left as
// they are, so the expected match counts of a live database are never rewritten.
// It returns how many seasons were new.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, league string) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, wrap(err, "begin seed tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	created := 0
	for _, s := range memory.SeedSeasons(league) {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO seasons (id, year, league, expected_match_count)
VALUES (:id, :year, :league, :expected_match_count)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":                   s.ID,
			"year":                 s.Year,
			"league":               s.League,
			"expected_match_count": s.ExpectedMatchCount,
		})
		if err != nil {
			return 0, fmt.Errorf("bind seed season %s query: %w", s.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		res, err := tx.ExecContext(ctx, sqlQuery, args...)
		if err != nil {
			return 0, wrap(err, "seed season %s", s.ID)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, wrap(err, "commit seed tx")
	}
	return created, nil
}
