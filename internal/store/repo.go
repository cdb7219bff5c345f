package store

import (
	"context"
	"time"
)

// Session event actions.
const (
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionAbandon  = "abandon"
)

// SessionEventData captures an interview lifecycle transition.
type SessionEventData struct {
	SessionKey     string
	InterviewID    string
	Action         string
	CandidateEmail string

	// Set on completion only.
	Band           string
	OverallPercent float64
	Summary        []byte
}

// AnswerEventData captures one graded answer.
type AnswerEventData struct {
	SessionKey  string
	InterviewID string
	QuestionID  string
	Skill       string
	Kind        string
	Answer      string
	Score       float64
	MaxScore    float64
	Feedback    string
}

// HintEventData captures a hint shown to the candidate.
type HintEventData struct {
	SessionKey  string
	InterviewID string
	QuestionID  string
	Skill       string
	Hint        string
}

// RequestEventData captures a single call to the interview service.
type RequestEventData struct {
	Operation    string
	LatencyMs    int64
	StatusCode   int
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to interview events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendHintEvent(ctx context.Context, data HintEventData) error
	AppendRequestEvent(ctx context.Context, data RequestEventData) error
}

// InterviewRecord summarizes one interview from the event log.
type InterviewRecord struct {
	InterviewID    string
	CandidateEmail string
	StartedAt      time.Time
	CompletedAt    time.Time // zero if never completed
	Band           string
	OverallPercent float64
	Answers        int
	Hints          int
}

// Completed reports whether the interview reached its summary.
func (r InterviewRecord) Completed() bool {
	return !r.CompletedAt.IsZero()
}

// HistoryRepo reads back past interviews.
type HistoryRepo interface {
	// RecentInterviews returns the most recently started interviews,
	// newest first. A limit <= 0 returns all of them.
	RecentInterviews(ctx context.Context, limit int) ([]InterviewRecord, error)
}
