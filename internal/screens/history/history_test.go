package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sheetcoach/internal/router"
	"github.com/abhisek/sheetcoach/internal/store"
)

type fakeHistory struct {
	records []store.InterviewRecord
	err     error
	limit   int
}

func (f *fakeHistory) RecentInterviews(_ context.Context, limit int) ([]store.InterviewRecord, error) {
	f.limit = limit
	return f.records, f.err
}

func testRecords() []store.InterviewRecord {
	started := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	return []store.InterviewRecord{
		{InterviewID: "iv-2", StartedAt: started.Add(time.Hour), Answers: 2, Hints: 1},
		{
			InterviewID:    "iv-1",
			CandidateEmail: "ana@example.com",
			StartedAt:      started,
			CompletedAt:    started.Add(12 * time.Minute),
			Band:           "Advanced",
			OverallPercent: 87.5,
			Answers:        6,
		},
	}
}

func loaded(t *testing.T, repo *fakeHistory) *HistoryScreen {
	t.Helper()
	s := New(repo)
	s.Update(s.Init()())
	if !s.loaded {
		t.Fatal("expected screen to be loaded")
	}
	return s
}

func TestHistoryScreen_ListsRecords(t *testing.T) {
	repo := &fakeHistory{records: testRecords()}
	s := loaded(t, repo)

	if repo.limit != listLimit {
		t.Errorf("limit = %d, want %d", repo.limit, listLimit)
	}
	view := s.View(100, 30)
	for _, want := range []string{"2 answers  not finished", "6 answers  Advanced 87.5%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := loaded(t, &fakeHistory{})
	if !strings.Contains(s.View(100, 30), "No interviews yet.") {
		t.Error("expected empty message")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := loaded(t, &fakeHistory{err: errors.New("disk gone")})
	if !strings.Contains(s.View(100, 30), "Error: disk gone") {
		t.Error("expected error message")
	}
}

func TestHistoryScreen_NavigateAndExpand(t *testing.T) {
	s := loaded(t, &fakeHistory{records: testRecords()})

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Fatalf("selected = %d, want 1", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selection should stop at the last record, got %d", s.selected)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(100, 30)
	for _, want := range []string{"Interview: iv-1", "Email: ana@example.com", "Completed:"} {
		if !strings.Contains(view, want) {
			t.Errorf("expanded view missing %q", want)
		}
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := loaded(t, &fakeHistory{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
