package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	iv "github.com/abhisek/sheetcoach/internal/interview"
	"github.com/abhisek/sheetcoach/internal/router"
	"github.com/abhisek/sheetcoach/internal/screen"
	"github.com/abhisek/sheetcoach/internal/screens/history"
	"github.com/abhisek/sheetcoach/internal/screens/session"
	"github.com/abhisek/sheetcoach/internal/screens/welcome"
	"github.com/abhisek/sheetcoach/internal/service"
	"github.com/abhisek/sheetcoach/internal/store"
	"github.com/abhisek/sheetcoach/internal/ui/layout"
)

// Options holds the dependencies injected into the TUI.
type Options struct {
	Client    service.Client
	EventRepo store.EventRepo   // optional audit log
	History   store.HistoryRepo // optional; enables the history screen
	Logger    *zap.Logger
	Email     string // pre-fills the welcome screen
	Greeting  string
	ReportDir string
	Status    string // header status when the active screen has none
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel creates a new AppModel starting on the welcome screen.
func newAppModel(opts Options) AppModel {
	factory := func(email string) screen.Screen {
		return session.New(newController(opts), email, opts.ReportDir)
	}
	start := welcome.New(opts.Email, factory)
	if opts.History != nil {
		start.WithHistory(func() screen.Screen {
			return history.New(opts.History)
		})
	}
	return AppModel{
		router: router.New(start),
		status: opts.Status,
	}
}

// newController builds a fresh controller for one interview.
func newController(opts Options) *iv.Controller {
	ivOpts := []iv.Option{iv.WithLogger(opts.Logger)}
	if opts.EventRepo != nil {
		ivOpts = append(ivOpts, iv.WithEventRepo(opts.EventRepo))
	}
	if opts.Greeting != "" {
		ivOpts = append(ivOpts, iv.WithGreeting(opts.Greeting))
	}
	return iv.New(opts.Client, ivOpts...)
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	status := m.status
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = append(footerHints, kp.KeyHints()...)
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program. Screens still on the stack are closed
// when the program exits, abandoning an unfinished interview.
func Run(opts Options) error {
	model := newAppModel(opts)
	defer model.router.Close()

	p := tea.NewProgram(model)
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
