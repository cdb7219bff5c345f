package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type historyRepo struct {
	drv *entsql.Driver
}

func (r *historyRepo) RecentInterviews(ctx context.Context, limit int) ([]InterviewRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	started := b.Table(sessionEventsTable.Name).As("s")
	completed := b.Table(sessionEventsTable.Name).As("c")
	answers := b.Table(answerEventsTable.Name).As("a")
	hints := b.Table(hintEventsTable.Name).As("h")

	sel := b.Select(
		started.C("interview_id"), started.C("candidate_email"), started.C("created_at"),
		completed.C("created_at"), completed.C("band"), completed.C("overall_percent"),
		entsql.Count("DISTINCT "+answers.C("id")),
		entsql.Count("DISTINCT "+hints.C("id")),
	).
		From(started).
		LeftJoin(completed).
		OnP(entsql.And(
			entsql.ColumnsEQ(completed.C("interview_id"), started.C("interview_id")),
			entsql.EQ(completed.C("action"), ActionComplete),
		)).
		LeftJoin(answers).
		On(answers.C("interview_id"), started.C("interview_id")).
		LeftJoin(hints).
		On(hints.C("interview_id"), started.C("interview_id")).
		Where(entsql.EQ(started.C("action"), ActionStart)).
		GroupBy(started.C("id")).
		OrderBy(entsql.Desc(started.C("sequence")))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	var out []InterviewRecord
	for rows.Next() {
		var (
			rec         InterviewRecord
			startedAt   int64
			completedAt sql.NullInt64
			band        sql.NullString
			percent     sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.InterviewID, &rec.CandidateEmail, &startedAt,
			&completedAt, &band, &percent,
			&rec.Answers, &rec.Hints,
		); err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		rec.StartedAt = time.UnixMilli(startedAt)
		if completedAt.Valid {
			rec.CompletedAt = time.UnixMilli(completedAt.Int64)
			rec.Band = band.String
			rec.OverallPercent = percent.Float64
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
