package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/sheetcoach/internal/answer"
	"github.com/abhisek/sheetcoach/internal/router"
	"github.com/abhisek/sheetcoach/internal/screens/history"
	"github.com/abhisek/sheetcoach/internal/screens/session"
	"github.com/abhisek/sheetcoach/internal/screens/welcome"
	"github.com/abhisek/sheetcoach/internal/service"
	"github.com/abhisek/sheetcoach/internal/store"
)

type emptyHistory struct{}

func (emptyHistory) RecentInterviews(context.Context, int) ([]store.InterviewRecord, error) {
	return nil, nil
}

func testOptions(t *testing.T) Options {
	q := service.Question{ID: "q1", Prompt: "Sum column A", Kind: answer.KindFormula, Skill: "sums", MaxScore: 10}
	return Options{
		Client:    service.NewMockClient(&service.StartResult{InterviewID: "iv-1", Question: q}),
		Logger:    zaptest.NewLogger(t),
		Email:     "ana@example.com",
		ReportDir: t.TempDir(),
		Status:    "api.example.com",
	}
}

func TestNewAppModel_StartsOnWelcome(t *testing.T) {
	m := newAppModel(testOptions(t))
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("expected welcome screen, got %T", m.router.Active())
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestView_HeaderAndFooter(t *testing.T) {
	m := newAppModel(testOptions(t))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := updated.(AppModel).render()

	for _, want := range []string{"Sheetcoach", "api.example.com", "Start interview", "Ctrl+C"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_TooSmall(t *testing.T) {
	m := newAppModel(testOptions(t))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if strings.Contains(updated.(AppModel).render(), "Sheetcoach") {
		t.Error("small terminals should show the size message only")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(testOptions(t))
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestEnterReplacesWelcomeWithInterview(t *testing.T) {
	m := newAppModel(testOptions(t))
	t.Cleanup(m.router.Close)

	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	msg := cmd()
	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}

	updated, _ = updated.Update(msg)
	am := updated.(AppModel)
	if _, ok := am.router.Active().(*session.SessionScreen); !ok {
		t.Fatalf("expected interview screen, got %T", am.router.Active())
	}
	if am.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", am.router.Depth())
	}
}

func TestTabPushesHistoryAndEscReturns(t *testing.T) {
	opts := testOptions(t)
	opts.History = emptyHistory{}
	m := newAppModel(opts)

	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	updated, _ = updated.Update(cmd())
	am := updated.(AppModel)
	if _, ok := am.router.Active().(*history.HistoryScreen); !ok {
		t.Fatalf("expected history screen, got %T", am.router.Active())
	}
	if am.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", am.router.Depth())
	}

	updated, cmd = updated.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	updated, _ = updated.Update(cmd())
	if _, ok := updated.(AppModel).router.Active().(*welcome.WelcomeScreen); !ok {
		t.Error("expected to be back on the welcome screen")
	}
}
