package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/tubeshelf/internal/tui/styles"
)

// InputModal is a text input modal with optional suggestions below it
type InputModal struct {
	visible bool
	title   string
	input   textinput.Model

	suggest     func(string) []string
	suggestions []string
	selected    int // -1 when no suggestion is highlighted
}

// NewInputModal creates a new input modal. suggest may be nil.
func NewInputModal(placeholder string, suggest func(string) []string) InputModal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{
		input:    ti,
		suggest:  suggest,
		selected: -1,
	}
}

// Show displays the modal with a title and initial value
func (m *InputModal) Show(title, value string) {
	m.visible = true
	m.title = title
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	m.refresh()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
	m.suggestions = nil
	m.selected = -1
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the highlighted suggestion, or the typed text
func (m InputModal) Value() string {
	if m.selected >= 0 && m.selected < len(m.suggestions) {
		return m.suggestions[m.selected]
	}
	return m.input.Value()
}

// Suggestions returns the suggestions for the current text
func (m InputModal) Suggestions() []string {
	return m.suggestions
}

func (m *InputModal) refresh() {
	m.selected = -1
	if m.suggest == nil {
		m.suggestions = nil
		return
	}
	m.suggestions = m.suggest(m.input.Value())
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		case "down", "ctrl+n":
			if len(m.suggestions) > 0 {
				m.selected = (m.selected + 1) % len(m.suggestions)
			}
			return m, nil, false
		case "up", "ctrl+p":
			if len(m.suggestions) > 0 {
				m.selected--
				if m.selected < -1 {
					m.selected = len(m.suggestions) - 1
				}
			}
			return m, nil, false
		case "tab":
			if v := m.Value(); v != m.input.Value() {
				m.input.SetValue(v)
				m.input.CursorEnd()
				m.refresh()
			}
			return m, nil, false
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 44

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	inputStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	spacer := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark).
		Render("")

	lines := []string{
		titleStyle.Render(m.title),
		spacer,
		inputStyle.Render(m.input.View()),
	}

	if len(m.suggestions) > 0 {
		lines = append(lines, spacer)
		for i, s := range m.suggestions {
			style := lipgloss.NewStyle().
				Width(modalWidth).
				Background(styles.SlateDark).
				Foreground(styles.LightGray)
			prefix := "  "
			if i == m.selected {
				style = style.Foreground(styles.TubeRed).Bold(true)
				prefix = "> "
			}
			lines = append(lines, style.Render(prefix+styles.Truncate(s, modalWidth-2)))
		}
	}

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
