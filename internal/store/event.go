package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// sequenceCounter assigns one increasing sequence across all event tables,
// so a hint and the answer that followed it can be ordered even though
// they live in different tables. Uses raw SQL outside ent because ent's
// builders have no atomic counter. The mutex serializes within the
// process; the RETURNING clause makes the increment atomic.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

// insert writes one event row. The id, sequence and created_at columns are
// filled in here; cols and vals carry the rest.
func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(table).
		Columns(append([]string{"id", "sequence", "created_at"}, cols...)...).
		Values(append([]any{uuid.New().String(), seq, time.Now().UnixMilli()}, vals...)...).
		Query()
	return r.drv.Exec(ctx, query, args, nil)
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, sessionEventsTable.Name,
		[]string{"session_key", "interview_id", "action", "candidate_email", "band", "overall_percent", "summary"},
		[]any{data.SessionKey, data.InterviewID, data.Action, data.CandidateEmail, data.Band, data.OverallPercent, string(data.Summary)},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, answerEventsTable.Name,
		[]string{"session_key", "interview_id", "question_id", "skill", "kind", "answer", "score", "max_score", "feedback"},
		[]any{data.SessionKey, data.InterviewID, data.QuestionID, data.Skill, data.Kind, data.Answer, data.Score, data.MaxScore, data.Feedback},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendHintEvent(ctx context.Context, data HintEventData) error {
	err := r.insert(ctx, hintEventsTable.Name,
		[]string{"session_key", "interview_id", "question_id", "skill", "hint"},
		[]any{data.SessionKey, data.InterviewID, data.QuestionID, data.Skill, data.Hint},
	)
	if err != nil {
		return fmt.Errorf("save hint event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendRequestEvent(ctx context.Context, data RequestEventData) error {
	err := r.insert(ctx, requestEventsTable.Name,
		[]string{"operation", "latency_ms", "status_code", "success", "error_message"},
		[]any{data.Operation, data.LatencyMs, data.StatusCode, data.Success, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}
