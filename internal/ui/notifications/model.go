package notifications

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/keys"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
)

// MarkReadMsg is sent when the user marks the selected notification
// read. The transition is idempotent server-side, so sending it for an
// already-read notification would also succeed; the panel simply does
// not offer it for those.
type MarkReadMsg struct {
	NotificationID string
}

// Model is the notifications panel. The list is kept fresh by the
// notifications query's refetch interval and by realtime invalidation;
// the panel itself only renders the latest snapshot.
type Model struct {
	items   []model.Notification
	cursor  int
	keys    *keys.KeyMap
	loading bool
	errMsg  string
	width   int
	height  int
}

// New creates a notifications panel model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, loading: true, width: width, height: height}
}

// SetNotifications installs the latest snapshot, clamping the cursor.
func (m *Model) SetNotifications(items []model.Notification) {
	m.items = items
	m.loading = false
	m.errMsg = ""
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetError surfaces a fetch or mark-read error inline.
func (m *Model) SetError(msg string) {
	m.loading = false
	m.errMsg = msg
}

// SetSize updates the render dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles navigation and mark-read keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.MarkRead), key.Matches(keyMsg, m.keys.Select):
		if m.cursor < len(m.items) && m.items[m.cursor].Unread() {
			id := m.items[m.cursor].ID
			return m, func() tea.Msg { return MarkReadMsg{NotificationID: id} }
		}
	}

	return m, nil
}

// View renders the notification rows, unread first as ordered by the
// server.
func (m Model) View() string {
	lines := []string{theme.PanelTitleStyle.Render("Notifications")}

	if m.errMsg != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.errMsg))
	}
	if m.loading && len(m.items) == 0 {
		lines = append(lines, theme.HelpStyle.Render("Loading..."))
	}
	if !m.loading && len(m.items) == 0 {
		lines = append(lines, theme.HelpStyle.Render("No notifications."))
	}

	for i, n := range m.items {
		marker := "  "
		if n.Unread() {
			marker = theme.BadgeStyle.Render("●")
		}
		row := marker + " " + n.Message + "  " +
			theme.HelpStyle.Render(n.CreatedAt.Local().Format("2006-01-02 15:04"))

		if i == m.cursor {
			row = theme.SelectedItemStyle.Render(row)
		} else {
			row = theme.ListItemStyle.Render(row)
		}
		lines = append(lines, row)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}
