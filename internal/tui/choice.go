package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/clawquant/internal/ports"
	"github.com/felixgeelhaar/clawquant/internal/tui/ui"
)

const (
	selectHint      = "(Use arrow keys)"
	multiSelectHint = "(Use arrow keys to move, <space> to select, <a> to toggle all)"
)

// choiceModel is a list of options. In single mode enter picks the option
// under the cursor; in multi mode space toggles and enter submits every
// checked option.
type choiceModel struct {
	message     string
	instruction string
	options     []ports.Option
	checked     []bool
	multi       bool
	cursor      int
	keys        ui.KeyMap
	styles      ui.Styles

	done      bool
	cancelled bool
}

func newSelectModel(message string, options []ports.Option, defaultValue string) choiceModel {
	m := choiceModel{
		message:     message,
		instruction: selectHint,
		options:     append([]ports.Option(nil), options...),
		checked:     make([]bool, len(options)),
		keys:        ui.DefaultKeyMap(),
		styles:      ui.DefaultStyles(),
	}
	for i, o := range options {
		if o.Value == defaultValue {
			m.cursor = i
			break
		}
	}
	return m
}

func newMultiSelectModel(message, instruction string, options []ports.Option) choiceModel {
	if instruction == "" {
		instruction = multiSelectHint
	}
	m := choiceModel{
		message:     message,
		instruction: instruction,
		options:     append([]ports.Option(nil), options...),
		checked:     make([]bool, len(options)),
		multi:       true,
		keys:        ui.DefaultKeyMap(),
		styles:      ui.DefaultStyles(),
	}
	for i, o := range options {
		m.checked[i] = o.Checked
	}
	return m
}

// Cursor returns the index of the highlighted option.
func (m choiceModel) Cursor() int { return m.cursor }

// Selected returns the value under the cursor, or "" with no options.
func (m choiceModel) Selected() string {
	if len(m.options) == 0 {
		return ""
	}
	return m.options[m.cursor].Value
}

// Checked returns the values of the checked options in option order.
func (m choiceModel) Checked() []string {
	out := make([]string, 0, len(m.options))
	for i, o := range m.options {
		if m.checked[i] {
			out = append(out, o.Value)
		}
	}
	return out
}

// Done reports whether the prompt was answered.
func (m choiceModel) Done() bool { return m.done }

// Cancelled reports whether the prompt was aborted.
func (m choiceModel) Cancelled() bool { return m.cancelled }

// Init implements tea.Model.
func (m choiceModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case m.keys.IsUp(keyMsg):
		if m.cursor > 0 {
			m.cursor--
		}
	case m.keys.IsDown(keyMsg):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case m.multi && key.Matches(keyMsg, m.keys.Toggle):
		if len(m.options) > 0 {
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	case m.multi && key.Matches(keyMsg, m.keys.All):
		all := true
		for _, c := range m.checked {
			all = all && c
		}
		for i := range m.checked {
			m.checked[i] = !all
		}
	case key.Matches(keyMsg, m.keys.Select):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m choiceModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Cursor.Render("?") + " " + m.styles.Question.Render(m.message) + " ")

	switch {
	case m.done && m.multi:
		labels := make([]string, 0, len(m.options))
		for i, o := range m.options {
			if m.checked[i] {
				labels = append(labels, o.Label)
			}
		}
		b.WriteString(m.styles.Answer.Render(strings.Join(labels, ", ")) + "\n")
		return b.String()
	case m.done:
		if len(m.options) > 0 {
			b.WriteString(m.styles.Answer.Render(m.options[m.cursor].Label))
		}
		b.WriteString("\n")
		return b.String()
	case m.cancelled:
		b.WriteString(m.styles.Muted.Render("cancelled") + "\n")
		return b.String()
	}

	b.WriteString(m.styles.Hint.Render(m.instruction) + "\n")
	for i, o := range m.options {
		pointer := "  "
		style := m.styles.Option
		if i == m.cursor {
			pointer = m.styles.Cursor.Render("❯") + " "
			style = m.styles.OptionActive
		}

		mark := ""
		if m.multi {
			mark = "○ "
			if m.checked[i] {
				mark = m.styles.OptionSelected.Render("●") + " "
			}
		}
		b.WriteString(pointer + mark + style.Render(o.Label) + "\n")
	}
	return b.String()
}
