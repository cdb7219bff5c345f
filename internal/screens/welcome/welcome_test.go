package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sheetcoach/internal/router"
	"github.com/abhisek/sheetcoach/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{ email string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "interview" }
func (s *stubScreen) Title() string                           { return "Interview" }

func newTestWelcome(email string) (*WelcomeScreen, *[]string) {
	var calls []string
	factory := func(email string) screen.Screen {
		calls = append(calls, email)
		return &stubScreen{email: email}
	}
	return New(email, factory), &calls
}

func typeText(w *WelcomeScreen, s string) {
	for _, r := range s {
		w.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func TestEnterWithEmptyEmailStarts(t *testing.T) {
	w, calls := newTestWelcome("")

	_, cmd := w.Update(enter())
	if cmd == nil {
		t.Fatal("expected a command from enter")
	}
	msg := cmd()
	replace, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if replace.Screen == nil {
		t.Error("replace screen should not be nil")
	}
	if len(*calls) != 1 || (*calls)[0] != "" {
		t.Errorf("expected factory called once with empty email, got %v", *calls)
	}
}

func TestTypedEmailIsPassedOn(t *testing.T) {
	w, calls := newTestWelcome("")
	typeText(w, "ana@example.com")

	_, cmd := w.Update(enter())
	if cmd == nil {
		t.Fatal("expected a command from enter")
	}
	if len(*calls) != 1 || (*calls)[0] != "ana@example.com" {
		t.Errorf("expected factory called with typed email, got %v", *calls)
	}
}

func TestPrefilledEmail(t *testing.T) {
	w, calls := newTestWelcome("pre@example.com")
	w.Update(enter())
	if len(*calls) != 1 || (*calls)[0] != "pre@example.com" {
		t.Errorf("expected prefilled email, got %v", *calls)
	}
}

func TestInvalidEmailBlocksStart(t *testing.T) {
	w, calls := newTestWelcome("")
	typeText(w, "not-an-email")

	_, cmd := w.Update(enter())
	if cmd != nil {
		t.Error("invalid email should not produce a command")
	}
	if len(*calls) != 0 {
		t.Errorf("factory should not be called, got %v", *calls)
	}
	if !strings.Contains(w.View(80, 24), "not a valid email address") {
		t.Error("expected validation error in view")
	}
}

func TestFactoryCalledOnce(t *testing.T) {
	w, calls := newTestWelcome("")
	w.Update(enter())

	_, cmd := w.Update(enter())
	if cmd != nil {
		t.Error("second enter should not produce a command")
	}
	if len(*calls) != 1 {
		t.Errorf("factory should be called exactly once, got %d", len(*calls))
	}
}

func TestEscQuits(t *testing.T) {
	w, _ := newTestWelcome("")
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestTicksAnimateAndContinue(t *testing.T) {
	w, calls := newTestWelcome("")
	for i := 0; i < 5; i++ {
		_, cmd := w.Update(tickMsg(time.Now()))
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}
	if w.tickCount != 5 {
		t.Errorf("expected 5 ticks, got %d", w.tickCount)
	}
	if len(*calls) != 0 {
		t.Error("ticks must not start the interview")
	}
}

func TestViewShowsBanner(t *testing.T) {
	w, _ := newTestWelcome("")
	view := w.View(80, 24)
	if !strings.Contains(view, "Excel mock interview") {
		t.Error("expected tagline in view")
	}
	if !strings.Contains(view, bannerWide) {
		t.Error("expected banner in view")
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"", true},
		{"  ", true},
		{"a@b.com", true},
		{"a@b", true},
		{"nope", false},
		{"Ana <a@b.com>", false},
	}
	for _, tt := range tests {
		err := validateEmail(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("validateEmail(%q) = %v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}

func TestTabOpensHistory(t *testing.T) {
	w, _ := newTestWelcome("")

	if _, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyTab}); cmd != nil {
		t.Error("tab without history should be a no-op")
	}

	hist := &stubScreen{}
	w.WithHistory(func() screen.Screen { return hist })
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if push.Screen != hist {
		t.Error("expected the history screen to be pushed")
	}

	hints := w.KeyHints()
	if len(hints) != 3 || hints[1].Key != "Tab" {
		t.Errorf("unexpected hints %+v", hints)
	}
}
