// Package interview drives one interview session against the remote
// interview service: it owns the current question, the draft answer, the
// transcript and the final summary.
package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/sheetcoach/internal/answer"
	"github.com/abhisek/sheetcoach/internal/service"
	"github.com/abhisek/sheetcoach/internal/store"
	"github.com/abhisek/sheetcoach/internal/transcript"
)

// DefaultGreeting is the first transcript line of every interview.
const DefaultGreeting = "Hi! 6 questions in ~12 mins."

// Option configures a Controller.
type Option func(*Controller)

// WithEventRepo records every applied transition in the audit store.
func WithEventRepo(repo store.EventRepo) Option {
	return func(c *Controller) { c.repo = repo }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithGreeting overrides DefaultGreeting.
func WithGreeting(greeting string) Option {
	return func(c *Controller) { c.greeting = greeting }
}

// Controller is the interview state machine. All methods are safe for
// concurrent use. The lock is not held while a service call is in flight,
// so the UI can keep reading state; a second submit or hint during that
// window is refused with ErrBusy.
type Controller struct {
	client   service.Client
	repo     store.EventRepo
	log      *zap.Logger
	greeting string
	key      string

	mu        sync.Mutex
	phase     Phase
	epoch     uint64
	abandoned bool

	interviewID string
	email       string
	current     *service.Question
	draft       string
	summary     *service.Summary
	lines       transcript.Log
}

// New creates a controller in PhaseIdle.
func New(client service.Client, opts ...Option) *Controller {
	c := &Controller{
		client:   client,
		log:      zap.NewNop(),
		greeting: DefaultGreeting,
		key:      uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("interview").With(zap.String("session", c.key))
	return c
}

// Start opens the interview. On failure the controller returns to
// PhaseIdle and Start may be called again.
func (c *Controller) Start(ctx context.Context, candidateEmail string) error {
	c.mu.Lock()
	if c.abandoned {
		c.mu.Unlock()
		return ErrAbandoned
	}
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.phase = PhaseStarting
	epoch := c.epoch
	c.mu.Unlock()

	res, err := c.client.Start(ctx, candidateEmail)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		c.log.Info("discarding start response after abandon")
		return ErrSuperseded
	}
	if err == nil && res == nil {
		err = &service.TransportError{Op: "/start", Err: service.ErrMalformedResponse}
	}
	if err != nil {
		c.phase = PhaseIdle
		c.mu.Unlock()
		c.log.Warn("start failed", zap.Error(err))
		return err
	}

	q := res.Question
	c.interviewID = res.InterviewID
	c.email = candidateEmail
	c.current = &q
	c.phase = PhaseAwaitingInput
	c.lines.Append(transcript.Agent(transcript.KindGreeting, c.greeting))
	c.mu.Unlock()

	c.log.Info("interview started",
		zap.String("interview_id", res.InterviewID),
		zap.String("question_id", q.ID),
		zap.String("kind", q.Kind.String()))
	c.audit(ctx, "start", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendSessionEvent(ctx, store.SessionEventData{
			SessionKey:     c.key,
			InterviewID:    res.InterviewID,
			Action:         store.ActionStart,
			CandidateEmail: candidateEmail,
		})
	})
	return nil
}

// SetDraft replaces the draft answer. It is allowed only while a question
// is awaiting input.
func (c *Controller) SetDraft(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkAwaitingInput(); err != nil {
		return err
	}
	c.draft = text
	return nil
}

// Draft returns the current draft answer.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// DetectedKind classifies the current draft against the current question.
// It returns "" when there is no current question.
func (c *Controller) DetectedKind() answer.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ""
	}
	return answer.Classify(c.draft, c.current.Kind)
}

// CanSubmit reports whether the draft has the shape the current question
// expects and the controller is ready to submit it.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Controller) canSubmitLocked() bool {
	if c.abandoned || c.phase != PhaseAwaitingInput || c.current == nil {
		return false
	}
	return answer.Matches(c.draft, c.current.Kind)
}

// RequestHint asks the service for a hint on the current question. The
// draft is never checked and never changes.
func (c *Controller) RequestHint(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if err := c.checkAwaitingInput(); err != nil {
		c.mu.Unlock()
		return OutcomeNone, err
	}
	q := *c.current
	sub := service.HintRequest(c.interviewID, q.ID)
	c.phase = PhaseSubmitting
	epoch := c.epoch
	c.mu.Unlock()

	res, err := c.client.SubmitAnswer(ctx, sub)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		c.log.Info("discarding hint response after abandon", zap.String("question_id", q.ID))
		return OutcomeNone, ErrSuperseded
	}
	c.phase = PhaseAwaitingInput
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("hint request failed", zap.String("question_id", q.ID), zap.Error(err))
		return OutcomeNone, err
	}
	if res == nil || !res.IsHint() {
		c.mu.Unlock()
		c.log.Info("service returned no hint", zap.String("question_id", q.ID))
		return OutcomeNone, ErrNoHint
	}
	c.applyHintLocked(res.Hint)
	interviewID := c.interviewID
	c.mu.Unlock()

	c.auditHint(ctx, interviewID, q, res.Hint)
	return OutcomeHint, nil
}

// Submit sends the draft as the answer to the current question.
//
// A draft whose shape does not match the question is refused locally: a
// mismatch line is appended and OutcomeMismatch is returned with a nil
// error. A table draft that does not parse returns *answer.TableError.
// Neither case contacts the service.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if err := c.checkAwaitingInput(); err != nil {
		c.mu.Unlock()
		return OutcomeNone, err
	}
	q := *c.current
	draft := c.draft

	if detected := answer.Classify(draft, q.Kind); detected != q.Kind {
		c.lines.Append(transcript.Agent(transcript.KindMismatch, mismatchText(q.Kind, detected)))
		c.mu.Unlock()
		c.log.Debug("submit refused",
			zap.String("question_id", q.ID),
			zap.String("expected", q.Kind.String()),
			zap.String("detected", detected.String()))
		return OutcomeMismatch, nil
	}

	sub, err := buildSubmission(c.interviewID, q, draft)
	if err != nil {
		c.mu.Unlock()
		return OutcomeNone, err
	}
	c.phase = PhaseSubmitting
	epoch := c.epoch
	c.mu.Unlock()

	res, err := c.client.SubmitAnswer(ctx, sub)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		c.log.Info("discarding answer response after abandon", zap.String("question_id", q.ID))
		return OutcomeNone, ErrSuperseded
	}
	c.phase = PhaseAwaitingInput
	if err == nil {
		err = checkAnswerResult(res)
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("submit failed", zap.String("question_id", q.ID), zap.Error(err))
		return OutcomeNone, err
	}

	// The service re-validates and may answer with a hint instead of a grade.
	if res.IsHint() {
		c.applyHintLocked(res.Hint)
		interviewID := c.interviewID
		c.mu.Unlock()
		c.auditHint(ctx, interviewID, q, res.Hint)
		return OutcomeHint, nil
	}

	c.lines.Append(transcript.Candidate(draft))
	c.lines.Append(transcript.Agent(transcript.KindFeedback, feedbackText(res.Feedback, res.Score)))
	c.draft = ""

	outcome := OutcomeAdvanced
	if res.Done {
		summary := cloneSummary(res.Summary)
		c.summary = summary
		c.current = nil
		c.phase = PhaseCompleted
		c.lines.Append(transcript.Agent(transcript.KindClosing, closingText(summary.Band)))
		outcome = OutcomeCompleted
	} else {
		next := *res.NextQuestion
		c.current = &next
	}
	interviewID := c.interviewID
	c.mu.Unlock()

	c.log.Info("answer graded",
		zap.String("question_id", q.ID),
		zap.Float64("score", res.Score),
		zap.Stringer("outcome", outcome))
	c.audit(ctx, "answer", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionKey:  c.key,
			InterviewID: interviewID,
			QuestionID:  q.ID,
			Skill:       q.Skill,
			Kind:        q.Kind.String(),
			Answer:      draft,
			Score:       res.Score,
			MaxScore:    q.MaxScore,
			Feedback:    res.Feedback,
		})
	})
	if outcome == OutcomeCompleted {
		c.auditCompletion(ctx, interviewID, res.Summary)
	}
	return outcome, nil
}

// ExportReport fetches the final report document. It is allowed only once
// the interview is complete, and never changes session state.
func (c *Controller) ExportReport(ctx context.Context) (json.RawMessage, error) {
	c.mu.Lock()
	if c.abandoned {
		c.mu.Unlock()
		return nil, ErrAbandoned
	}
	if c.phase != PhaseCompleted {
		c.mu.Unlock()
		return nil, ErrNotCompleted
	}
	interviewID := c.interviewID
	c.mu.Unlock()

	doc, err := c.client.FetchReport(ctx, interviewID)
	if err != nil {
		c.log.Warn("report export failed", zap.String("interview_id", interviewID), zap.Error(err))
		return nil, &ReportError{InterviewID: interviewID, Err: err}
	}
	return doc, nil
}

// Abandon supersedes the controller. Every later action returns
// ErrAbandoned and a response still in flight is discarded.
func (c *Controller) Abandon() {
	c.mu.Lock()
	if c.abandoned {
		c.mu.Unlock()
		return
	}
	c.abandoned = true
	c.epoch++
	interviewID := c.interviewID
	completed := c.phase == PhaseCompleted
	c.mu.Unlock()

	if interviewID == "" || completed {
		return
	}
	c.log.Info("interview abandoned", zap.String("interview_id", interviewID))
	c.audit(context.Background(), "abandon", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendSessionEvent(ctx, store.SessionEventData{
			SessionKey:  c.key,
			InterviewID: interviewID,
			Action:      store.ActionAbandon,
		})
	})
}

// Session returns a snapshot of the current state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Session{
		SessionKey:     c.key,
		InterviewID:    c.interviewID,
		CandidateEmail: c.email,
		Phase:          c.phase,
		Current:        cloneQuestion(c.current),
		Done:           c.summary != nil,
		Summary:        cloneSummary(c.summary),
		Draft:          c.draft,
		CanSubmit:      c.canSubmitLocked(),
		Transcript:     c.lines.Lines(),
	}
	if c.current != nil {
		s.Detected = answer.Classify(c.draft, c.current.Kind)
	}
	return s
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// checkAwaitingInput must be called with c.mu held.
func (c *Controller) checkAwaitingInput() error {
	if c.abandoned {
		return ErrAbandoned
	}
	switch c.phase {
	case PhaseIdle:
		return ErrNotStarted
	case PhaseStarting, PhaseSubmitting:
		return ErrBusy
	case PhaseCompleted:
		return ErrCompleted
	}
	return nil
}

func (c *Controller) applyHintLocked(hint string) {
	c.lines.Append(transcript.Agent(transcript.KindHint, hint))
}

func (c *Controller) auditHint(ctx context.Context, interviewID string, q service.Question, hint string) {
	c.log.Info("hint shown", zap.String("question_id", q.ID))
	c.audit(ctx, "hint", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendHintEvent(ctx, store.HintEventData{
			SessionKey:  c.key,
			InterviewID: interviewID,
			QuestionID:  q.ID,
			Skill:       q.Skill,
			Hint:        hint,
		})
	})
}

func (c *Controller) auditCompletion(ctx context.Context, interviewID string, summary *service.Summary) {
	c.log.Info("interview complete",
		zap.String("interview_id", interviewID),
		zap.String("band", summary.Band),
		zap.Float64("overall_percent", summary.OverallPercent))
	raw, err := json.Marshal(summary)
	if err != nil {
		c.log.Warn("failed to encode summary", zap.Error(err))
	}
	c.audit(ctx, "complete", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendSessionEvent(ctx, store.SessionEventData{
			SessionKey:     c.key,
			InterviewID:    interviewID,
			Action:         store.ActionComplete,
			Band:           summary.Band,
			OverallPercent: summary.OverallPercent,
			Summary:        raw,
		})
	})
}

// audit runs fn against the event repo, if any. A failed write is logged
// and never fails the transition.
func (c *Controller) audit(ctx context.Context, event string, fn func(context.Context, store.EventRepo) error) {
	if c.repo == nil {
		return
	}
	if err := fn(context.WithoutCancel(ctx), c.repo); err != nil {
		c.log.Warn("failed to record event", zap.String("event", event), zap.Error(err))
	}
}

func buildSubmission(interviewID string, q service.Question, draft string) (service.Submission, error) {
	if q.Kind == answer.KindTable {
		rows, err := answer.ParseTable(draft)
		if err != nil {
			return service.Submission{}, err
		}
		return service.TableSubmission(interviewID, q.ID, rows), nil
	}
	return service.TextSubmission(interviewID, q.ID, draft), nil
}

// checkAnswerResult rejects graded responses that would break the
// Done/Summary/Current invariant.
func checkAnswerResult(res *service.AnswerResult) error {
	switch {
	case res == nil:
		return &service.TransportError{Op: "/answer", Err: fmt.Errorf("%w: empty result", service.ErrMalformedResponse)}
	case res.IsHint():
		return nil
	case res.Done && res.Summary == nil:
		return &service.TransportError{Op: "/answer", Err: fmt.Errorf("%w: done without summary", service.ErrMalformedResponse)}
	case !res.Done && res.NextQuestion == nil:
		return &service.TransportError{Op: "/answer", Err: fmt.Errorf("%w: not done but no next question", service.ErrMalformedResponse)}
	}
	return nil
}

func mismatchText(expected, detected answer.Kind) string {
	return fmt.Sprintf("Expected **%s**, but you entered **%s**. Please adjust before submitting.", expected, detected)
}

func feedbackText(feedback string, score float64) string {
	return fmt.Sprintf("%s (Score: %s)", feedback, strconv.FormatFloat(score, 'f', -1, 64))
}

func closingText(band string) string {
	return fmt.Sprintf("Interview complete. Band: %s.", band)
}
