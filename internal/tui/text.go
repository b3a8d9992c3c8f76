package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/clawquant/internal/ports"
	"github.com/felixgeelhaar/clawquant/internal/tui/ui"
)

// textModel asks for one line of text. The default is pre-filled and can be
// edited; a password prompt masks what is typed and has no default.
type textModel struct {
	message  string
	password bool
	input    textinput.Model
	keys     ui.KeyMap
	styles   ui.Styles

	value     string
	done      bool
	cancelled bool
}

func newTextModel(p ports.TextPrompt) textModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = p.Placeholder
	ti.SetValue(p.Default)
	ti.CharLimit = 1024
	ti.Focus()

	return textModel{
		message: p.Message,
		input:   ti,
		keys:    ui.DefaultKeyMap(),
		styles:  ui.DefaultStyles(),
	}
}

func newPasswordModel(message string) textModel {
	m := newTextModel(ports.TextPrompt{Message: message})
	m.password = true
	m.input.EchoMode = textinput.EchoPassword
	m.input.EchoCharacter = '*'
	return m
}

// Value returns the submitted text.
func (m textModel) Value() string { return m.value }

// Done reports whether the prompt was answered.
func (m textModel) Done() bool { return m.done }

// Cancelled reports whether the prompt was aborted.
func (m textModel) Cancelled() bool { return m.cancelled }

// Init implements tea.Model.
func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m textModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Cursor.Render("?") + " " + m.styles.Question.Render(m.message) + " ")

	switch {
	case m.done && m.password:
		if m.value != "" {
			b.WriteString(m.styles.Answer.Render(strings.Repeat("*", 8)))
		}
		b.WriteString("\n")
	case m.done:
		b.WriteString(m.styles.Answer.Render(m.value) + "\n")
	case m.cancelled:
		b.WriteString(m.styles.Muted.Render("cancelled") + "\n")
	default:
		b.WriteString(m.input.View() + "\n")
	}
	return b.String()
}
