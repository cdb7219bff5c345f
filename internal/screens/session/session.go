package session

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	iv "github.com/abhisek/sheetcoach/internal/interview"
	"github.com/abhisek/sheetcoach/internal/router"
	"github.com/abhisek/sheetcoach/internal/screen"
	"github.com/abhisek/sheetcoach/internal/ui/components"
	"github.com/abhisek/sheetcoach/internal/ui/layout"
	"github.com/abhisek/sheetcoach/internal/ui/theme"
)

const (
	boxWidth  = 72
	boxHeight = 4
)

// SessionScreen implements screen.Screen for a running interview.
type SessionScreen struct {
	ctrl      *iv.Controller
	email     string
	reportDir string

	ctx    context.Context
	cancel context.CancelFunc

	box     components.AnswerBox
	spinner spinner.Model

	busy        bool
	startErr    string
	notice      string
	quitConfirm bool
	questionID  string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)
var _ screen.Closer = (*SessionScreen)(nil)

// New creates a SessionScreen that starts the interview for email when
// initialized. Reports are exported to reportDir from the summary screen.
func New(ctrl *iv.Controller, email, reportDir string) *SessionScreen {
	ctx, cancel := context.WithCancel(context.Background())
	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
	)
	return &SessionScreen{
		ctrl:      ctrl,
		email:     email,
		reportDir: reportDir,
		ctx:       ctx,
		cancel:    cancel,
		box:       components.NewAnswerBox(boxWidth, boxHeight),
		spinner:   spin,
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	s.busy = true
	return tea.Batch(
		s.startCmd(),
		s.spinner.Tick,
		s.box.Init(),
	)
}

func (s *SessionScreen) Title() string {
	return "Interview"
}

// Status shows the candidate and the controller phase in the header.
func (s *SessionScreen) Status() string {
	phase := s.ctrl.Phase().String()
	if s.email == "" {
		return phase
	}
	return s.email + " · " + phase
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Keep going"},
		}
	case s.startErr != "":
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Submit"},
		{Key: "Ctrl+G", Description: "Hint"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Close abandons an unfinished interview and cancels calls in flight. A
// completed interview is left alone so its report can still be exported.
func (s *SessionScreen) Close() {
	s.cancel()
	if s.ctrl.Phase() != iv.PhaseCompleted {
		s.ctrl.Abandon()
	}
}

func (s *SessionScreen) View(width, height int) string {
	if s.quitConfirm {
		return renderQuitConfirm(width, height)
	}
	if s.startErr != "" {
		return renderError(width, height, s.startErr)
	}
	sess := s.ctrl.Session()
	if !sess.Started() {
		return renderLoading(width, height, s.spinner.View())
	}
	return s.renderInterview(width, height, sess)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)

	case answeredMsg:
		return s.handleAnswered(msg)

	case hintMsg:
		return s.handleHint(msg)

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s, s.forward(msg)
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.quitConfirm = false
			s.Close()
			return s, tea.Quit
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if s.startErr != "" {
		switch key {
		case "r", "R":
			s.startErr = ""
			s.busy = true
			return s, tea.Batch(s.startCmd(), s.spinner.Tick)
		case "esc":
			return s, tea.Quit
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "ctrl+s":
		return s.submit()
	case "ctrl+g":
		return s.requestHint()
	}

	return s, s.forward(msg)
}

// forward passes input to the answer box and mirrors the result into the
// controller draft. Input is dropped while a call is in flight.
func (s *SessionScreen) forward(msg tea.Msg) tea.Cmd {
	if s.busy || s.ctrl.Phase() != iv.PhaseAwaitingInput {
		return nil
	}
	var cmd tea.Cmd
	s.box, cmd = s.box.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok {
		s.notice = ""
	}
	if v := s.box.Value(); v != s.ctrl.Draft() {
		_ = s.ctrl.SetDraft(v)
	}
	return cmd
}

func (s *SessionScreen) submit() (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	s.busy = true
	s.notice = ""
	ctrl, ctx := s.ctrl, s.ctx
	return s, tea.Batch(
		func() tea.Msg {
			outcome, err := ctrl.Submit(ctx)
			return answeredMsg{Outcome: outcome, Err: err}
		},
		s.spinner.Tick,
	)
}

func (s *SessionScreen) requestHint() (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	s.busy = true
	s.notice = ""
	ctrl, ctx := s.ctrl, s.ctx
	return s, tea.Batch(
		func() tea.Msg {
			outcome, err := ctrl.RequestHint(ctx)
			return hintMsg{Outcome: outcome, Err: err}
		},
		s.spinner.Tick,
	)
}

func (s *SessionScreen) startCmd() tea.Cmd {
	ctrl, ctx, email := s.ctrl, s.ctx, s.email
	return func() tea.Msg {
		return startedMsg{Err: ctrl.Start(ctx, email)}
	}
}

func (s *SessionScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		if ignorable(msg.Err) {
			return s, nil
		}
		s.startErr = msg.Err.Error()
		return s, nil
	}
	s.syncQuestion()
	return s, s.box.Init()
}

func (s *SessionScreen) handleAnswered(msg answeredMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		if !ignorable(msg.Err) {
			s.notice = "Could not submit: " + msg.Err.Error()
		}
		return s, nil
	}

	switch msg.Outcome {
	case iv.OutcomeAdvanced:
		// A graded answer clears the draft even when the service re-issues
		// the same question id.
		s.resetBox()
	case iv.OutcomeCompleted:
		s.resetBox()
		next := newSummaryScreenAdapter(s.ctrl, s.reportDir)
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}
	return s, nil
}

func (s *SessionScreen) handleHint(msg hintMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	switch {
	case errors.Is(msg.Err, iv.ErrNoHint):
		s.notice = "No hint is available for this question."
	case msg.Err != nil && !ignorable(msg.Err):
		s.notice = "Could not fetch a hint: " + msg.Err.Error()
	}
	return s, nil
}

// syncQuestion clears the answer box when the current question changes.
func (s *SessionScreen) syncQuestion() {
	sess := s.ctrl.Session()
	if sess.Current == nil || sess.Current.ID == s.questionID {
		return
	}
	s.resetBox()
}

// resetBox empties the answer box and applies the current question's kind.
func (s *SessionScreen) resetBox() {
	s.box.Reset()
	if cur := s.ctrl.Session().Current; cur != nil {
		s.questionID = cur.ID
		s.box.SetKind(cur.Kind)
	}
}

// ignorable reports errors that need no notice: a duplicate action while
// one is in flight, or a response that arrived after the screen closed.
func ignorable(err error) bool {
	return errors.Is(err, iv.ErrBusy) ||
		errors.Is(err, iv.ErrSuperseded) ||
		errors.Is(err, iv.ErrAbandoned) ||
		errors.Is(err, context.Canceled)
}
