package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sheetcoach/internal/answer"
	iv "github.com/abhisek/sheetcoach/internal/interview"
	"github.com/abhisek/sheetcoach/internal/transcript"
	"github.com/abhisek/sheetcoach/internal/ui/theme"
)

// renderInterview renders the transcript tail, the current question and
// the answer box.
func (s *SessionScreen) renderInterview(width, height int, sess iv.Session) string {
	inner := max(width-4, 20)

	var bottom []string
	if q := sess.Current; q != nil {
		title := lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Width(inner).
			Render(fmt.Sprintf("Q (%s): %s", q.Skill, q.Prompt))
		bottom = append(bottom, title)

		expected := lipgloss.NewStyle().Foreground(theme.Text).Render(
			fmt.Sprintf("Expected: %s %s", q.Kind, answer.FormatHint(q.Kind)))
		detected := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(
			"Detected: " + sess.Detected.String())
		bottom = append(bottom, expected+"    "+detected, "")

		s.box.SetWidth(min(inner, boxWidth))
		bottom = append(bottom, s.box.View())

		if !sess.CanSubmit {
			bottom = append(bottom, theme.Banner.Render("Format mismatch: adjust your answer."))
		} else {
			bottom = append(bottom, "")
		}
	}

	status := ""
	switch {
	case s.busy:
		status = s.spinner.View() + " " + theme.Hint.Render("Waiting for the interviewer...")
	case s.notice != "":
		status = lipgloss.NewStyle().Foreground(theme.Error).Render(s.notice)
	}
	bottom = append(bottom, status)

	footer := strings.Join(bottom, "\n")
	room := height - lipgloss.Height(footer) - 2
	log := renderTranscript(sess.Transcript, inner, room)

	sep := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner))
	content := log + "\n" + sep + "\n" + footer
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}

// renderTranscript renders the newest transcript rows that fit in rows.
func renderTranscript(lines []transcript.Line, width, rows int) string {
	if rows <= 0 {
		return ""
	}
	var out []string
	for _, line := range lines {
		rendered := lineStyle(line).Width(width).Render(stripEmphasis(line.String()))
		out = append(out, strings.Split(rendered, "\n")...)
	}
	if len(out) > rows {
		out = out[len(out)-rows:]
	}
	for len(out) < rows {
		out = append([]string{""}, out...)
	}
	return strings.Join(out, "\n")
}

// stripEmphasis drops the markdown bold markers the interviewer uses
// around kinds; the whole line is already styled.
func stripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}

func lineStyle(line transcript.Line) lipgloss.Style {
	switch {
	case line.Speaker == transcript.SpeakerCandidate:
		return theme.CandidateLine
	case line.Kind == transcript.KindHint:
		return theme.HintLine
	case line.Kind == transcript.KindMismatch:
		return theme.Incorrect
	}
	return theme.AgentLine
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave the interview?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("The interview cannot be resumed."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderLoading renders the connecting state.
func renderLoading(width, height int, spin string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  " + spin + " Connecting to the interviewer...")
}

// renderError renders a start failure.
func renderError(width, height int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Could not start the interview: %s\n\n  Press r to retry or esc to quit.", errMsg))
}
