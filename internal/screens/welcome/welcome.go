package welcome

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sheetcoach/internal/router"
	"github.com/abhisek/sheetcoach/internal/screen"
	"github.com/abhisek/sheetcoach/internal/ui/components"
	"github.com/abhisek/sheetcoach/internal/ui/layout"
	"github.com/abhisek/sheetcoach/internal/ui/theme"
)

const tickInterval = 400 * time.Millisecond

// cursorFrames cycle through the grid cells like a moving selection.
var cursorFrames = []int{0, 1, 2, 1}

type tickMsg time.Time

// Factory builds the interview screen for the given candidate email.
type Factory func(candidateEmail string) screen.Screen

// WelcomeScreen asks for an optional candidate email and then hands over
// to the interview screen.
type WelcomeScreen struct {
	factory      Factory
	history      func() screen.Screen
	input        components.TextInput
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. email pre-fills the input.
func New(email string, factory Factory) *WelcomeScreen {
	input := components.NewTextInput("candidate@example.com (optional)", 254)
	input.Validate = validateEmail
	input.SetValue(email)
	return &WelcomeScreen{
		factory: factory,
		input:   input,
	}
}

// WithHistory enables the history screen, opened with tab.
func (w *WelcomeScreen) WithHistory(history func() screen.Screen) *WelcomeScreen {
	w.history = history
	return w
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return fmt.Errorf("%q is not a valid email address", s)
	}
	return nil
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Start interview"}}
	if w.history != nil {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(w.input.Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return w, w.transition()
		case "esc":
			return w, tea.Quit
		case "tab":
			if w.history == nil {
				return w, nil
			}
			next := w.history()
			return w, func() tea.Msg {
				return router.PushScreenMsg{Screen: next}
			}
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	if err := w.input.Check(); err != nil {
		return nil
	}
	w.transitioned = true
	next := w.factory(strings.TrimSpace(w.input.Value()))
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	grid := lipgloss.NewStyle().Foreground(theme.Border).Render(gridArt)
	lines := strings.Split(grid, "\n")
	if len(lines) > 1 {
		marker := lipgloss.NewStyle().Foreground(theme.Accent).Render("▶")
		cell := cursorFrames[w.tickCount%len(cursorFrames)]
		lines[1] = lines[1] + "  " + strings.Repeat("   ", cell) + marker
	}
	sections = append(sections, strings.Join(lines, "\n"))

	sections = append(sections, "", RenderBanner(width), "")

	tagline := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Excel mock interview")
	sections = append(sections, tagline, "")

	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render("Your email")
	sections = append(sections, label, w.input.View(), "")

	hint := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Render("press enter to begin")
	sections = append(sections, hint)

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
