package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nwsl-stats/internal/domain/canonical"
	"github.com/riskibarqy/nwsl-stats/internal/domain/participation"
	qb "github.com/riskibarqy/nwsl-stats/internal/platform/querybuilder"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

const participationTable = "match_participation_records"

var participationConflict = []string{"match_id", "entity_id", "category"}

// participationColumns lists the table columns in scan order: key, canonical
// fields in schema order, then bookkeeping.
func participationColumns() []string {
	cols := make([]string, 0, canonical.FieldCount+7)
	cols = append(cols, participationConflict...)
	for _, spec := range canonical.Fields() {
		cols = append(cols, string(spec.Name))
	}
	return append(cols, "content_hash", "populated_field_count", "created_at", "last_modified_at")
}

type ParticipationRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db, now: time.Now}
}

func (r *ParticipationRepository) WriteMatch(ctx context.Context, write participation.MatchWrite) (participation.WriteSummary, error) {
	seen := make(map[participation.Key]struct{}, len(write.Records))
	for _, rec := range write.Records {
		if _, dup := seen[rec.Key]; dup {
			return participation.WriteSummary{}, markf(storeerr.ErrConstraint, "write match %s: record %s appears twice", write.MatchID, rec.Key)
		}
		seen[rec.Key] = struct{}{}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return participation.WriteSummary{}, wrap(err, "begin tx write match %s", write.MatchID)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.checkReferences(ctx, tx, write); err != nil {
		return participation.WriteSummary{}, err
	}

	existing, err := r.existingHashes(ctx, tx, write.MatchID)
	if err != nil {
		return participation.WriteSummary{}, err
	}

	var summary participation.WriteSummary
	if len(write.Records) > 0 {
		now := r.now().UTC()
		cols := participationColumns()
		insert := qb.InsertInto(participationTable).Columns(cols...)
		for _, rec := range write.Records {
			hash, ok := existing[rec.Key]
			switch {
			case !ok:
				summary.Inserted++
			case hash == rec.ContentHash:
				summary.Unchanged++
			default:
				summary.Updated++
			}
			insert.Values(participationValues(rec, now)...)
		}

		update := make([]string, 0, len(cols))
		for _, col := range cols {
			if col != "created_at" {
				update = append(update, col)
			}
		}
		query, args, err := insert.Suffix(qb.OnConflictUpdate(participationConflict, update)).ToSQL()
		if err != nil {
			return participation.WriteSummary{}, wrap(err, "build upsert participation query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return participation.WriteSummary{}, wrap(err, "upsert participation match=%s", write.MatchID)
		}
	}

	if err := tx.Commit(); err != nil {
		return participation.WriteSummary{}, wrap(err, "commit write match %s tx", write.MatchID)
	}
	return summary, nil
}

func (r *ParticipationRepository) checkReferences(ctx context.Context, tx *sqlx.Tx, write participation.MatchWrite) error {
	query, args, err := qb.Select("id").From("seasons").Where(qb.Eq("id", write.SeasonID)).ToSQL()
	if err != nil {
		return wrap(err, "build select season reference query")
	}
	var seasonID string
	if err := tx.GetContext(ctx, &seasonID, query, args...); err != nil {
		if isNotFound(err) {
			return markf(storeerr.ErrForeignKey, "write match %s: season %s not found", write.MatchID, write.SeasonID)
		}
		return wrap(err, "select season reference %s", write.SeasonID)
	}

	query, args, err = qb.Select("season_id").From("matches").Where(qb.Eq("id", write.MatchID)).ToSQL()
	if err != nil {
		return wrap(err, "build select match reference query")
	}
	var matchSeason string
	if err := tx.GetContext(ctx, &matchSeason, query, args...); err != nil {
		if isNotFound(err) {
			return markf(storeerr.ErrForeignKey, "write match %s: match not found", write.MatchID)
		}
		return wrap(err, "select match reference %s", write.MatchID)
	}
	if matchSeason != write.SeasonID {
		return markf(storeerr.ErrForeignKey, "write match %s: match belongs to season %s", write.MatchID, matchSeason)
	}

	wanted := map[participation.Category][]string{}
	for _, rec := range write.Records {
		if rec.MatchID != write.MatchID {
			return markf(storeerr.ErrConstraint, "write match %s: record %s targets another match", write.MatchID, rec.Key)
		}
		if !rec.Category.Valid() {
			return markf(storeerr.ErrConstraint, "write match %s: record %s has an invalid category", write.MatchID, rec.Key)
		}
		wanted[rec.Category] = append(wanted[rec.Category], rec.EntityID)
	}

	tables := map[participation.Category]string{
		participation.CategoryPlayer: "players",
		participation.CategoryTeam:   "teams",
	}
	for _, category := range []participation.Category{participation.CategoryPlayer, participation.CategoryTeam} {
		ids := wanted[category]
		if len(ids) == 0 {
			continue
		}
		query, args, err := qb.Select("id").From(tables[category]).Where(qb.InStrings("id", ids)).ToSQL()
		if err != nil {
			return wrap(err, "build select %s references query", category)
		}
		var found []string
		if err := tx.SelectContext(ctx, &found, query, args...); err != nil {
			return wrap(err, "select %s references", category)
		}
		present := make(map[string]struct{}, len(found))
		for _, id := range found {
			present[id] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := present[id]; !ok {
				return markf(storeerr.ErrForeignKey, "write match %s: %s entity %s not found", write.MatchID, category, id)
			}
		}
	}
	return nil
}

type participationHashRow struct {
	EntityID    string `db:"entity_id"`
	Category    string `db:"category"`
	ContentHash string `db:"content_hash"`
}

func (r *ParticipationRepository) existingHashes(ctx context.Context, tx *sqlx.Tx, matchID string) (map[participation.Key]string, error) {
	query, args, err := qb.Select("entity_id", "category", "content_hash").
		From(participationTable).
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return nil, wrap(err, "build select participation hashes query")
	}

	var rows []participationHashRow
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrap(err, "select participation hashes match=%s", matchID)
	}

	out := make(map[participation.Key]string, len(rows))
	for _, row := range rows {
		out[participation.Key{
			MatchID:  matchID,
			EntityID: row.EntityID,
			Category: participation.Category(row.Category),
		}] = row.ContentHash
	}
	return out, nil
}

func participationValues(rec participation.Record, now time.Time) []any {
	values := make([]any, 0, canonical.FieldCount+7)
	values = append(values, rec.MatchID, rec.EntityID, string(rec.Category))
	rec.Values.Each(func(spec canonical.FieldSpec, v canonical.Value) {
		values = append(values, v.SQL(spec.Kind))
	})
	return append(values, rec.ContentHash, rec.PopulatedCount, now, now)
}

func (r *ParticipationRepository) ListByMatch(ctx context.Context, matchID string) ([]participation.Record, error) {
	query, args, err := qb.Select(participationColumns()...).
		From(participationTable).
		Where(qb.Eq("match_id", matchID)).
		OrderBy("category", "entity_id").
		ToSQL()
	if err != nil {
		return nil, wrap(err, "build select participation query")
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(err, "select participation match=%s", matchID)
	}
	defer rows.Close()

	out := make([]participation.Record, 0)
	for rows.Next() {
		rec, err := scanParticipation(rows)
		if err != nil {
			return nil, wrap(err, "scan participation match=%s", matchID)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "iterate participation match=%s", matchID)
	}
	return out, nil
}

func scanParticipation(rows *sqlx.Rows) (participation.Record, error) {
	specs := canonical.Fields()
	var (
		rec      participation.Record
		category string
	)
	fields := make([]any, len(specs))
	dest := make([]any, 0, len(specs)+7)
	dest = append(dest, &rec.MatchID, &rec.EntityID, &category)
	for i, spec := range specs {
		switch {
		case spec.Kind.Integral():
			fields[i] = new(sql.NullInt64)
		case spec.Kind.Numeric():
			fields[i] = new(sql.NullFloat64)
		default:
			fields[i] = new(sql.NullString)
		}
		dest = append(dest, fields[i])
	}
	dest = append(dest, &rec.ContentHash, &rec.PopulatedCount, &rec.CreatedAt, &rec.LastModifiedAt)

	if err := rows.Scan(dest...); err != nil {
		return participation.Record{}, err
	}

	rec.Category = participation.Category(category)
	rec.Values = canonical.NewRecord()
	for i, spec := range specs {
		switch v := fields[i].(type) {
		case *sql.NullInt64:
			if v.Valid {
				rec.Values.Set(spec.Name, canonical.IntValue(v.Int64))
			}
		case *sql.NullFloat64:
			if v.Valid {
				rec.Values.Set(spec.Name, canonical.FloatValue(v.Float64))
			}
		case *sql.NullString:
			if v.Valid {
				rec.Values.Set(spec.Name, canonical.TextValue(v.String))
			}
		}
	}
	return rec, nil
}

type coverageRow struct {
	MatchID          string `db:"match_id"`
	Records          int    `db:"records"`
	PopulatedRecords int    `db:"populated_records"`
	TeamRecords      int    `db:"team_records"`
}

func (r *ParticipationRepository) CoverageBySeason(ctx context.Context, seasonID string) ([]participation.Coverage, error) {
	query, args, err := qb.Select(
		"r.match_id",
		"COUNT(*) AS records",
		"COUNT(*) FILTER (WHERE r.category = 'player' AND r.populated_field_count > 0) AS populated_records",
		"COUNT(*) FILTER (WHERE r.category = 'team') AS team_records",
	).
		From(participationTable+" r JOIN matches m ON m.id = r.match_id").
		Where(qb.Eq("m.season_id", seasonID)).
		GroupBy("r.match_id").
		OrderBy("r.match_id").
		ToSQL()
	if err != nil {
		return nil, wrap(err, "build select coverage query")
	}

	var rows []coverageRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrap(err, "select coverage season=%s", seasonID)
	}

	out := make([]participation.Coverage, 0, len(rows))
	for _, row := range rows {
		out = append(out, participation.Coverage{
			MatchID:          row.MatchID,
			Records:          row.Records,
			PopulatedRecords: row.PopulatedRecords,
			TeamRecords:      row.TeamRecords,
		})
	}
	return out, nil
}

func (r *ParticipationRepository) CountBySeason(ctx context.Context, seasonID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").
		From(participationTable+" r JOIN matches m ON m.id = r.match_id").
		Where(qb.Eq("m.season_id", seasonID)).
		ToSQL()
	if err != nil {
		return 0, wrap(err, "build count participation query")
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrap(err, "count participation season=%s", seasonID)
	}
	return count, nil
}
