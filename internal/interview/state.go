package interview

import (
	"maps"
	"slices"

	"github.com/abhisek/sheetcoach/internal/answer"
	"github.com/abhisek/sheetcoach/internal/service"
	"github.com/abhisek/sheetcoach/internal/transcript"
)

// Phase represents where the controller is in the interview lifecycle.
type Phase int

const (
	PhaseIdle          Phase = iota // Not started yet
	PhaseStarting                   // Start call in flight
	PhaseAwaitingInput              // Question shown, draft editable
	PhaseSubmitting                 // Answer or hint call in flight
	PhaseCompleted                  // Summary received; terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStarting:
		return "starting"
	case PhaseAwaitingInput:
		return "awaiting-input"
	case PhaseSubmitting:
		return "submitting"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// Outcome tells the caller what a submit or hint action did.
type Outcome int

const (
	OutcomeNone      Outcome = iota // Nothing happened
	OutcomeHint                     // A hint line was appended; question and draft unchanged
	OutcomeMismatch                 // Refused locally; a mismatch line was appended
	OutcomeAdvanced                 // Answer graded; next question is current
	OutcomeCompleted                // Answer graded; summary stored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHint:
		return "hint"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeCompleted:
		return "completed"
	}
	return "none"
}

// Session is a read-only snapshot of a controller's state. Once started,
// Done, Summary != nil and Current == nil always agree.
type Session struct {
	SessionKey     string
	InterviewID    string
	CandidateEmail string
	Phase          Phase

	Current *service.Question
	Done    bool
	Summary *service.Summary

	Draft     string
	Detected  answer.Kind
	CanSubmit bool

	Transcript []transcript.Line
}

// Started reports whether the start call has succeeded.
func (s Session) Started() bool {
	return s.InterviewID != ""
}

func cloneQuestion(q *service.Question) *service.Question {
	if q == nil {
		return nil
	}
	cp := *q
	return &cp
}

func cloneSummary(s *service.Summary) *service.Summary {
	if s == nil {
		return nil
	}
	cp := *s
	cp.PerSkill = maps.Clone(s.PerSkill)
	cp.Strengths = slices.Clone(s.Strengths)
	cp.Gaps = slices.Clone(s.Gaps)
	cp.Drills = slices.Clone(s.Drills)
	return &cp
}
