package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/sheetcoach/internal/answer"
	iv "github.com/abhisek/sheetcoach/internal/interview"
	"github.com/abhisek/sheetcoach/internal/router"
	"github.com/abhisek/sheetcoach/internal/screens/summary"
	"github.com/abhisek/sheetcoach/internal/service"
)

func question(id string, kind answer.Kind) service.Question {
	return service.Question{
		ID:       id,
		Prompt:   "Prompt for " + id,
		Kind:     kind,
		Skill:    "skill-" + id,
		MaxScore: 10,
	}
}

func newTestScreen(t *testing.T, mock *service.MockClient) (*SessionScreen, *iv.Controller) {
	t.Helper()
	ctrl := iv.New(mock, iv.WithLogger(zaptest.NewLogger(t)))
	s := New(ctrl, "ana@example.com", t.TempDir())
	t.Cleanup(s.cancel)
	return s, ctrl
}

// startedScreen returns a screen whose start call has already completed.
func startedScreen(t *testing.T, first service.Question, answers ...service.MockAnswer) (*SessionScreen, *iv.Controller, *service.MockClient) {
	t.Helper()
	mock := service.NewMockClient(&service.StartResult{InterviewID: "iv-1", Question: first}, answers...)
	s, ctrl := newTestScreen(t, mock)
	s.busy = true
	s.Update(s.startCmd()())
	if s.startErr != "" {
		t.Fatalf("start failed: %s", s.startErr)
	}
	return s, ctrl, mock
}

// runCmd executes cmd and any batched commands, collecting their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver runs cmd and feeds every resulting message except spinner ticks
// back into the screen. It returns the commands the screen produced.
func deliver(s *SessionScreen, cmd tea.Cmd) []tea.Cmd {
	var out []tea.Cmd
	for _, msg := range runCmd(cmd) {
		switch msg.(type) {
		case startedMsg, answeredMsg, hintMsg:
			_, next := s.Update(msg)
			if next != nil {
				out = append(out, next)
			}
		}
	}
	return out
}

func typeText(s *SessionScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func key(code rune, mod tea.KeyMod) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Mod: mod}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return key(r, tea.ModCtrl)
}

func TestStartShowsFirstQuestion(t *testing.T) {
	s, ctrl, mock := startedScreen(t, question("q1", answer.KindFormula))

	if len(mock.StartCalls) != 1 || mock.StartCalls[0] != "ana@example.com" {
		t.Errorf("expected one start call with the email, got %v", mock.StartCalls)
	}
	if s.busy {
		t.Error("screen should not be busy after start")
	}
	if s.box.Kind() != answer.KindFormula {
		t.Errorf("expected answer box kind formula, got %s", s.box.Kind())
	}
	if ctrl.Phase() != iv.PhaseAwaitingInput {
		t.Errorf("expected awaiting input, got %s", ctrl.Phase())
	}

	view := s.View(100, 30)
	for _, want := range []string{
		"Q (skill-q1): Prompt for q1",
		"Expected: formula",
		"Agent: " + iv.DefaultGreeting,
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStartFailureAllowsRetry(t *testing.T) {
	mock := service.NewMockClient(nil)
	s, ctrl := newTestScreen(t, mock)

	s.Update(s.startCmd()())
	if s.startErr == "" {
		t.Fatal("expected a start error")
	}
	if !strings.Contains(s.View(100, 30), "Could not start the interview") {
		t.Error("expected start error in view")
	}

	mock.StartResult = &service.StartResult{InterviewID: "iv-1", Question: question("q1", answer.KindValue)}
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected retry command")
	}
	if !s.busy {
		t.Error("retry should mark the screen busy")
	}
	deliver(s, cmd)

	if s.startErr != "" {
		t.Errorf("unexpected start error after retry: %s", s.startErr)
	}
	if !ctrl.Session().Started() {
		t.Error("interview should be started after retry")
	}
	if len(mock.StartCalls) != 2 {
		t.Errorf("expected 2 start calls, got %d", len(mock.StartCalls))
	}
}

func TestTypingUpdatesDraft(t *testing.T) {
	s, ctrl, _ := startedScreen(t, question("q1", answer.KindFormula))

	typeText(s, "=SUM(A1:A3)")
	if got := ctrl.Draft(); got != "=SUM(A1:A3)" {
		t.Errorf("draft = %q", got)
	}
	if ctrl.DetectedKind() != answer.KindFormula {
		t.Errorf("detected = %s", ctrl.DetectedKind())
	}
	if strings.Contains(s.View(100, 30), "Format mismatch") {
		t.Error("matching draft should not show the mismatch banner")
	}
}

func TestMismatchBannerAndLocalRefusal(t *testing.T) {
	s, ctrl, mock := startedScreen(t, question("q1", answer.KindFormula))
	typeText(s, "42")

	if !strings.Contains(s.View(100, 30), "Format mismatch") {
		t.Error("expected mismatch banner")
	}

	_, cmd := s.Update(ctrlKey('s'))
	deliver(s, cmd)

	if len(mock.Submissions) != 0 {
		t.Errorf("mismatched draft must not reach the service, got %d calls", len(mock.Submissions))
	}
	if s.box.Value() != "42" {
		t.Errorf("draft should be kept, got %q", s.box.Value())
	}
	lines := ctrl.Session().Transcript
	last := lines[len(lines)-1].String()
	if !strings.Contains(last, "Expected **formula**, but you entered **value**") {
		t.Errorf("unexpected last line %q", last)
	}
	if view := s.View(100, 30); !strings.Contains(view, "Agent: Expected formula, but you entered value.") {
		t.Errorf("transcript should show the mismatch without markers:\n%s", view)
	}
}

func TestSubmitAdvancesToNextQuestion(t *testing.T) {
	next := question("q2", answer.KindValue)
	s, ctrl, mock := startedScreen(t, question("q1", answer.KindFormula),
		service.MockAnswer{Result: &service.AnswerResult{Feedback: "Nice", Score: 8, NextQuestion: &next}})

	typeText(s, "=SUM(A1:A3)")
	_, cmd := s.Update(ctrlKey('s'))
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	if !s.busy {
		t.Error("submit should mark the screen busy")
	}
	deliver(s, cmd)

	if len(mock.Submissions) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(mock.Submissions))
	}
	if s.busy {
		t.Error("screen should not be busy after the answer")
	}
	if s.box.Value() != "" {
		t.Errorf("answer box should be cleared, got %q", s.box.Value())
	}
	if s.box.Kind() != answer.KindValue {
		t.Errorf("expected box kind value, got %s", s.box.Kind())
	}
	if ctrl.Session().Current.ID != "q2" {
		t.Errorf("expected q2 current, got %s", ctrl.Session().Current.ID)
	}

	view := s.View(100, 30)
	for _, want := range []string{"You: =SUM(A1:A3)", "Agent: Nice (Score: 8)", "Q (skill-q2)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReissuedQuestionClearsAnswerBox(t *testing.T) {
	q1 := question("q1", answer.KindValue)
	s, ctrl, mock := startedScreen(t, q1,
		service.MockAnswer{Result: &service.AnswerResult{Feedback: "Expected a number", Score: 0, NextQuestion: &q1}},
		service.MockAnswer{Result: &service.AnswerResult{Feedback: "Right", Score: 10, NextQuestion: &q1}})

	typeText(s, "42")
	_, cmd := s.Update(ctrlKey('s'))
	deliver(s, cmd)

	if s.box.Value() != ctrl.Draft() {
		t.Fatalf("answer box %q out of sync with draft %q", s.box.Value(), ctrl.Draft())
	}
	if s.box.Value() != "" {
		t.Errorf("answer box should be cleared, got %q", s.box.Value())
	}
	if s.box.Kind() != answer.KindValue {
		t.Errorf("expected box kind value, got %s", s.box.Kind())
	}

	typeText(s, "17")
	if !ctrl.CanSubmit() {
		t.Fatalf("draft %q should be submittable", ctrl.Draft())
	}
	if strings.Contains(s.View(100, 30), "Format mismatch") {
		t.Error("mismatch banner shown for a matching answer")
	}
	_, cmd = s.Update(ctrlKey('s'))
	deliver(s, cmd)

	if len(mock.Submissions) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(mock.Submissions))
	}
	if got := *mock.Submissions[1].AnswerText; got != "17" {
		t.Errorf("second submission = %q, want 17", got)
	}
}

func TestCompletionReplacesWithSummary(t *testing.T) {
	s, ctrl, mock := startedScreen(t, question("q1", answer.KindText),
		service.MockAnswer{Result: &service.AnswerResult{
			Feedback: "Good",
			Score:    9,
			Done:     true,
			Summary:  &service.Summary{Band: "Advanced", OverallPercent: 90},
		}})
	mock.Report = []byte(`{"band":"Advanced"}`)

	typeText(s, "Use absolute refs")
	_, cmd := s.Update(ctrlKey('s'))
	next := deliver(s, cmd)
	if len(next) != 1 {
		t.Fatalf("expected one navigation command, got %d", len(next))
	}

	msg := next[0]()
	replace, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if _, ok := replace.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", replace.Screen)
	}

	// The router closes the screen on replace; a completed interview must
	// stay exportable.
	s.Close()
	if _, err := ctrl.ExportReport(context.Background()); err != nil {
		t.Errorf("export after close: %v", err)
	}
}

func TestInputIgnoredWhileBusy(t *testing.T) {
	s, ctrl, _ := startedScreen(t, question("q1", answer.KindText))
	s.busy = true

	typeText(s, "abc")
	if ctrl.Draft() != "" {
		t.Errorf("draft should be unchanged while busy, got %q", ctrl.Draft())
	}
	if _, cmd := s.Update(ctrlKey('s')); cmd != nil {
		t.Error("submit while busy should be a no-op")
	}
	if _, cmd := s.Update(ctrlKey('g')); cmd != nil {
		t.Error("hint while busy should be a no-op")
	}
}

func TestHintAppendsLine(t *testing.T) {
	s, ctrl, mock := startedScreen(t, question("q1", answer.KindFormula),
		service.MockAnswer{Result: &service.AnswerResult{Hint: "Try SUMIFS"}})
	typeText(s, "=SUM(")

	_, cmd := s.Update(ctrlKey('g'))
	deliver(s, cmd)

	if len(mock.Submissions) != 1 || !mock.Submissions[0].WantHint {
		t.Fatalf("expected one hint request, got %+v", mock.Submissions)
	}
	if ctrl.Draft() != "=SUM(" || s.box.Value() != "=SUM(" {
		t.Error("hint must keep the draft")
	}
	if !strings.Contains(s.View(100, 30), "Agent (hint): Try SUMIFS") {
		t.Error("expected hint line in view")
	}
}

func TestNoHintNotice(t *testing.T) {
	s, _, _ := startedScreen(t, question("q1", answer.KindFormula))
	s.busy = true

	s.Update(hintMsg{Err: iv.ErrNoHint})
	if s.busy {
		t.Error("screen should not be busy after the hint response")
	}
	if !strings.Contains(s.View(100, 30), "No hint is available") {
		t.Error("expected no-hint notice")
	}
}

func TestSubmitErrorShowsNoticeAndKeepsDraft(t *testing.T) {
	s, ctrl, _ := startedScreen(t, question("q1", answer.KindValue),
		service.MockAnswer{Err: &service.TransportError{Op: "/answer", StatusCode: 500, Status: "500 Internal Server Error"}})

	typeText(s, "19.99")
	_, cmd := s.Update(ctrlKey('s'))
	deliver(s, cmd)

	if !strings.Contains(s.notice, "Could not submit") {
		t.Errorf("expected submit notice, got %q", s.notice)
	}
	if ctrl.Draft() != "19.99" {
		t.Errorf("draft should be kept, got %q", ctrl.Draft())
	}

	// Typing again clears the notice.
	typeText(s, "5")
	if s.notice != "" {
		t.Errorf("notice should clear on input, got %q", s.notice)
	}
}

func TestIgnoredErrorsLeaveNoNotice(t *testing.T) {
	s, _, _ := startedScreen(t, question("q1", answer.KindValue))
	for _, err := range []error{iv.ErrBusy, iv.ErrSuperseded, iv.ErrAbandoned, context.Canceled} {
		s.Update(answeredMsg{Err: err})
		if s.notice != "" {
			t.Errorf("%v should not produce a notice, got %q", err, s.notice)
		}
	}
	s.Update(answeredMsg{Err: errors.New("boom")})
	if s.notice == "" {
		t.Error("other errors should produce a notice")
	}
}

func TestQuitConfirmFlow(t *testing.T) {
	s, ctrl, _ := startedScreen(t, question("q1", answer.KindText))

	s.Update(key(tea.KeyEscape, 0))
	if !s.quitConfirm {
		t.Fatal("esc should open the quit confirmation")
	}
	if !strings.Contains(s.View(100, 30), "Leave the interview?") {
		t.Error("expected quit confirmation in view")
	}

	s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if s.quitConfirm {
		t.Fatal("n should dismiss the confirmation")
	}
	if err := ctrl.SetDraft("still here"); err != nil {
		t.Fatalf("controller should still be usable: %v", err)
	}

	s.Update(key(tea.KeyEscape, 0))
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if err := ctrl.SetDraft("x"); !errors.Is(err, iv.ErrAbandoned) {
		t.Errorf("expected ErrAbandoned after leaving, got %v", err)
	}
}

func TestCloseAbandonsUnfinishedInterview(t *testing.T) {
	s, ctrl, _ := startedScreen(t, question("q1", answer.KindText))
	s.Close()

	if s.ctx.Err() == nil {
		t.Error("close should cancel in-flight calls")
	}
	if _, err := ctrl.Submit(context.Background()); !errors.Is(err, iv.ErrAbandoned) {
		t.Errorf("expected ErrAbandoned, got %v", err)
	}
}

func TestStatusAndKeyHints(t *testing.T) {
	s, _, _ := startedScreen(t, question("q1", answer.KindText))

	if got := s.Status(); got != "ana@example.com · awaiting-input" {
		t.Errorf("status = %q", got)
	}
	hints := s.KeyHints()
	if len(hints) != 3 || hints[0].Key != "Ctrl+S" {
		t.Errorf("unexpected hints %+v", hints)
	}

	s.quitConfirm = true
	if hints := s.KeyHints(); hints[0].Key != "Y" {
		t.Errorf("unexpected confirm hints %+v", hints)
	}
}
