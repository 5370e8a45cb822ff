package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/keys"
	"github.com/nhle/taskdeck/internal/theme"
)

// Model renders the expanded keybinding reference.
type Model struct {
	inner help.Model
	keys  *keys.KeyMap
	width int
}

// New creates the help screen model.
func New(k *keys.KeyMap, width int) Model {
	h := help.New()
	h.ShowAll = true
	h.Width = width
	return Model{inner: h, keys: k, width: width}
}

// SetSize updates the render width.
func (m *Model) SetSize(width int) {
	m.width = width
	m.inner.Width = width
}

// ShortView renders the compact one-line hint row for the status bar.
func (m Model) ShortView() string {
	h := m.inner
	h.ShowAll = false
	return h.View(m.keys)
}

// View renders the full keybinding reference.
func (m Model) View() string {
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			theme.PanelTitleStyle.Render("Keybindings"),
			"",
			m.inner.View(m.keys),
			"",
			theme.HelpStyle.Render("Press esc to go back."),
		),
	)
}
