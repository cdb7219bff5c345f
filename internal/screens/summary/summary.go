package summary

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	iv "github.com/abhisek/sheetcoach/internal/interview"
	"github.com/abhisek/sheetcoach/internal/report"
	"github.com/abhisek/sheetcoach/internal/screen"
	"github.com/abhisek/sheetcoach/internal/service"
	"github.com/abhisek/sheetcoach/internal/ui/layout"
	"github.com/abhisek/sheetcoach/internal/ui/theme"
)

// exportedMsg is sent when a report export finishes.
type exportedMsg struct {
	Path string
	Err  error
}

// SummaryScreen displays the final assessment and exports the report.
type SummaryScreen struct {
	ctrl      *iv.Controller
	reportDir string

	exporting bool
	path      string
	exportErr string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for a completed interview.
func New(ctrl *iv.Controller, reportDir string) *SummaryScreen {
	return &SummaryScreen{ctrl: ctrl, reportDir: reportDir}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) Status() string {
	return "complete"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Export report"},
		{Key: "Enter", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportedMsg:
		s.exporting = false
		if msg.Err != nil {
			s.path = ""
			s.exportErr = msg.Err.Error()
			return s, nil
		}
		s.exportErr = ""
		s.path = msg.Path
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "r", "R":
			return s, s.export()
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) export() tea.Cmd {
	if s.exporting {
		return nil
	}
	s.exporting = true
	ctrl, dir := s.ctrl, s.reportDir
	id := ctrl.Session().InterviewID
	return func() tea.Msg {
		doc, err := ctrl.ExportReport(context.Background())
		if err != nil {
			return exportedMsg{Err: err}
		}
		path, err := report.Write(dir, id, doc)
		return exportedMsg{Path: path, Err: err}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	sess := s.ctrl.Session()
	sum := sess.Summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Interview complete"))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	block := lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(Lines(sum), "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
	b.WriteString("\n\n")

	var status string
	switch {
	case s.exporting:
		status = theme.Hint.Render("Exporting report...")
	case s.exportErr != "":
		status = lipgloss.NewStyle().Foreground(theme.Error).Render("Export failed: " + s.exportErr)
	case s.path != "":
		status = theme.Correct.Render("Report saved to " + s.path)
	default:
		status = theme.Hint.Render("Press r to save the full report as JSON.")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, status))

	return b.String()
}

// Lines renders a summary as display lines. Skills are listed in name
// order and empty lists show as "-".
func Lines(sum *service.Summary) []string {
	skills := make([]string, 0, len(sum.PerSkill))
	for _, name := range slices.Sorted(maps.Keys(sum.PerSkill)) {
		skills = append(skills, fmt.Sprintf("%s: %s%%", name, formatNumber(sum.PerSkill[name])))
	}
	return []string{
		fmt.Sprintf("Band: %s (%s%%)", sum.Band, formatNumber(sum.OverallPercent)),
		"Per-skill: " + orDash(strings.Join(skills, " | ")),
		"Strengths: " + orDash(strings.Join(sum.Strengths, ", ")),
		"Gaps: " + orDash(strings.Join(sum.Gaps, ", ")),
		"Drills: " + orDash(strings.Join(sum.Drills, "; ")),
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
