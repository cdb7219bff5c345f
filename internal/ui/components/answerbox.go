package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sheetcoach/internal/answer"
)

// AnswerBox is a multi-line answer editor whose placeholder follows the
// kind of the current question.
type AnswerBox struct {
	Model textarea.Model
	kind  answer.Kind
}

// NewAnswerBox creates a focused answer editor.
func NewAnswerBox(width, height int) AnswerBox {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = "│ "
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()
	return AnswerBox{Model: ta}
}

// Init returns the initial command.
func (a AnswerBox) Init() tea.Cmd {
	return a.Model.Focus()
}

// Update handles messages.
func (a AnswerBox) Update(msg tea.Msg) (AnswerBox, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the editor.
func (a AnswerBox) View() string {
	return a.Model.View()
}

// Value returns the draft exactly as typed.
func (a AnswerBox) Value() string {
	return a.Model.Value()
}

// SetValue replaces the draft.
func (a *AnswerBox) SetValue(s string) {
	a.Model.SetValue(s)
}

// Reset clears the draft.
func (a *AnswerBox) Reset() {
	a.Model.Reset()
}

// SetKind switches the placeholder to the example for kind.
func (a *AnswerBox) SetKind(kind answer.Kind) {
	a.kind = kind
	a.Model.Placeholder = answer.Placeholder(kind)
}

// Kind returns the kind set by SetKind.
func (a AnswerBox) Kind() answer.Kind {
	return a.kind
}

// SetWidth resizes the editor.
func (a *AnswerBox) SetWidth(w int) {
	a.Model.SetWidth(w)
}
