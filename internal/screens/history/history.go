package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sheetcoach/internal/router"
	"github.com/abhisek/sheetcoach/internal/screen"
	"github.com/abhisek/sheetcoach/internal/store"
	"github.com/abhisek/sheetcoach/internal/ui/layout"
	"github.com/abhisek/sheetcoach/internal/ui/theme"
)

const listLimit = 50

type historyLoadedMsg struct {
	Records []store.InterviewRecord
	Err     error
}

// HistoryScreen lists past interviews from the audit log.
type HistoryScreen struct {
	repo     store.HistoryRepo
	records  []store.InterviewRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.HistoryRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		records, err := repo.RecentInterviews(context.Background(), listLimit)
		return historyLoadedMsg{Records: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No interviews yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := prefix + recordLine(rec)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == s.selected:
			style = style.Foreground(theme.Primary).Bold(true)
		case !rec.Completed():
			style = style.Foreground(theme.TextDim)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range recordDetails(rec) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
						Render("    "+detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func recordLine(rec store.InterviewRecord) string {
	dateStr := rec.StartedAt.Local().Format("Jan 02, 2006 15:04")
	result := "not finished"
	if rec.Completed() {
		result = fmt.Sprintf("%s %s%%", rec.Band, strconv.FormatFloat(rec.OverallPercent, 'f', -1, 64))
	}
	return fmt.Sprintf("%s  %d answers  %s", dateStr, rec.Answers, result)
}

func recordDetails(rec store.InterviewRecord) []string {
	email := rec.CandidateEmail
	if email == "" {
		email = "-"
	}
	details := []string{
		"Interview: " + rec.InterviewID,
		"Email: " + email,
		fmt.Sprintf("Hints: %d", rec.Hints),
	}
	if rec.Completed() {
		details = append(details, "Completed: "+rec.CompletedAt.Local().Format("Jan 02, 2006 15:04"))
	}
	return details
}
