package service

import (
	"encoding/json"
	"errors"

	"github.com/abhisek/sheetcoach/internal/answer"
)

// Question is issued by the service and never modified by the client.
type Question struct {
	ID       string      `json:"id"`
	Prompt   string      `json:"prompt"`
	Kind     answer.Kind `json:"kind"`
	Skill    string      `json:"skill"`
	MaxScore float64     `json:"max_score"`
	Hint     string      `json:"hint,omitempty"`
}

// StartResult is the response to POST /start.
type StartResult struct {
	InterviewID string   `json:"interview_id"`
	Question    Question `json:"question"`
}

// Submission is the body of POST /answer. A hint request carries neither
// answer field; any other submission carries exactly one.
type Submission struct {
	InterviewID string           `json:"interview_id"`
	QuestionID  string           `json:"question_id"`
	WantHint    bool             `json:"want_hint,omitempty"`
	AnswerText  *string          `json:"answer_text,omitempty"`
	AnswerTable []map[string]any `json:"answer_table,omitempty"`
}

// TextSubmission builds a submission for formula, value and text questions.
func TextSubmission(interviewID, questionID, text string) Submission {
	return Submission{InterviewID: interviewID, QuestionID: questionID, AnswerText: &text}
}

// TableSubmission builds a submission for table questions.
func TableSubmission(interviewID, questionID string, rows []map[string]any) Submission {
	if rows == nil {
		rows = []map[string]any{}
	}
	return Submission{InterviewID: interviewID, QuestionID: questionID, AnswerTable: rows}
}

// HintRequest builds a hint request for the given question.
func HintRequest(interviewID, questionID string) Submission {
	return Submission{InterviewID: interviewID, QuestionID: questionID, WantHint: true}
}

var (
	ErrMissingIDs      = errors.New("submission needs interview and question ids")
	ErrAmbiguousAnswer = errors.New("submission carries both answer_text and answer_table")
	ErrMissingAnswer   = errors.New("submission carries neither answer_text nor answer_table")
	ErrHintWithAnswer  = errors.New("hint request must not carry an answer")
)

// Validate checks the one-of rule between answer_text and answer_table.
func (s Submission) Validate() error {
	if s.InterviewID == "" || s.QuestionID == "" {
		return ErrMissingIDs
	}
	hasText := s.AnswerText != nil
	hasTable := s.AnswerTable != nil
	if s.WantHint {
		if hasText || hasTable {
			return ErrHintWithAnswer
		}
		return nil
	}
	switch {
	case hasText && hasTable:
		return ErrAmbiguousAnswer
	case !hasText && !hasTable:
		return ErrMissingAnswer
	}
	return nil
}

// MarshalJSON keeps an empty answer_table on the wire; omitempty would
// otherwise drop a legitimate "[]" answer.
func (s Submission) MarshalJSON() ([]byte, error) {
	type wire struct {
		InterviewID string            `json:"interview_id"`
		QuestionID  string            `json:"question_id"`
		WantHint    bool              `json:"want_hint,omitempty"`
		AnswerText  *string           `json:"answer_text,omitempty"`
		AnswerTable *[]map[string]any `json:"answer_table,omitempty"`
	}
	w := wire{
		InterviewID: s.InterviewID,
		QuestionID:  s.QuestionID,
		WantHint:    s.WantHint,
		AnswerText:  s.AnswerText,
	}
	if s.AnswerTable != nil {
		w.AnswerTable = &s.AnswerTable
	}
	return json.Marshal(w)
}

// Summary is the terminal assessment returned with the final answer.
type Summary struct {
	Band           string             `json:"band"`
	OverallPercent float64            `json:"overall_percent"`
	TotalScore     float64            `json:"total_score,omitempty"`
	PerSkill       map[string]float64 `json:"per_skill"`
	Strengths      []string           `json:"strengths"`
	Gaps           []string           `json:"gaps"`
	Drills         []string           `json:"drills"`
}

// AnswerResult is the response to POST /answer. It is either a hint, or
// feedback plus the next question, or feedback plus the summary.
type AnswerResult struct {
	Hint         string    `json:"hint,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	Score        float64   `json:"score"`
	Correct      bool      `json:"correct,omitempty"`
	Done         bool      `json:"done"`
	NextQuestion *Question `json:"next_question,omitempty"`
	Summary      *Summary  `json:"summary,omitempty"`
}

// IsHint reports whether the service answered with a hint instead of a grade.
func (r *AnswerResult) IsHint() bool {
	return r.Hint != ""
}

// ServiceMetrics is the response to GET /admin/metrics: grading totals
// across every interview the service has seen.
type ServiceMetrics struct {
	TotalAnswers int                `json:"total_answers"`
	AvgScore     float64            `json:"avg_score"`
	PerSkillAvg  map[string]float64 `json:"per_skill_avg"`
}

// HealthStatus is the response to GET /health.
type HealthStatus struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}
