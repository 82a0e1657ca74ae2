package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nwsl-stats/internal/domain/match"
	qb "github.com/riskibarqy/nwsl-stats/internal/platform/querybuilder"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert never moves a stored match to another season or pairing; the WHERE on
// the conflict branch turns such a write into a no-op that is reported below.
func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertModel("matches", matchInsertModel{
		ID:         item.ID,
		SeasonID:   item.SeasonID,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		MatchDate:  item.MatchDate,
		RosterSize: item.RosterSize,
		UpdatedAt:  time.Now().UTC(),
	}, `ON CONFLICT (id) DO UPDATE SET
    match_date = COALESCE(EXCLUDED.match_date, matches.match_date),
    roster_size = EXCLUDED.roster_size,
    updated_at = EXCLUDED.updated_at
WHERE matches.season_id = EXCLUDED.season_id
  AND matches.home_team_id = EXCLUDED.home_team_id
  AND matches.away_team_id = EXCLUDED.away_team_id`)
	if err != nil {
		return wrap(err, "build upsert match query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap(err, "upsert match id=%s", item.ID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrap(err, "rows affected upsert match id=%s", item.ID)
	}
	if affected == 0 {
		return markf(storeerr.ErrConstraint, "upsert match id=%s: stored season or teams differ", item.ID)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, wrap(err, "build select match query")
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, wrap(err, "select match id=%s", id)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, wrap(err, "build select matches by season query")
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrap(err, "select matches season=%s", seasonID)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func matchFromRow(row matchTableModel) match.Match {
	out := match.Match{
		ID:         row.ID,
		SeasonID:   row.SeasonID,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		RosterSize: row.RosterSize,
	}
	if row.MatchDate.Valid {
		date := row.MatchDate.Time
		out.MatchDate = &date
	}
	return out
}
