package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/clawquant/internal/tui/ui"
)

// confirmModel is a yes/no question. y and n answer immediately; the arrow
// keys move the highlight and enter accepts it.
type confirmModel struct {
	message string
	focused bool // true = yes, false = no
	keys    ui.KeyMap
	styles  ui.Styles

	done      bool
	cancelled bool
}

func newConfirmModel(message string, defaultValue bool) confirmModel {
	return confirmModel{
		message: message,
		focused: defaultValue,
		keys:    ui.DefaultKeyMap(),
		styles:  ui.DefaultStyles(),
	}
}

// Value returns the answer, or the highlighted choice before one is given.
func (m confirmModel) Value() bool { return m.focused }

// Done reports whether the prompt was answered.
func (m confirmModel) Done() bool { return m.done }

// Cancelled reports whether the prompt was aborted.
func (m confirmModel) Cancelled() bool { return m.cancelled }

// Init implements tea.Model.
func (m confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Left):
		m.focused = true
	case key.Matches(keyMsg, m.keys.Right):
		m.focused = false
	case key.Matches(keyMsg, m.keys.Yes):
		m.focused = true
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.No):
		m.focused = false
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Select):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m confirmModel) View() string {
	line := m.styles.Cursor.Render("?") + " " + m.styles.Question.Render(m.message) + " "

	switch {
	case m.done && m.focused:
		return line + m.styles.Answer.Render("Yes") + "\n"
	case m.done:
		return line + m.styles.Answer.Render("No") + "\n"
	case m.cancelled:
		return line + m.styles.Muted.Render("cancelled") + "\n"
	}

	hint := "(y/N)"
	if m.focused {
		hint = "(Y/n)"
	}
	return line + m.styles.Hint.Render(hint) + "\n"
}
