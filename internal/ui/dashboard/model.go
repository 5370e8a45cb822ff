package dashboard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
)

// bucketLimit caps how many tasks render per bucket.
const bucketLimit = 5

// Model renders the three server-computed dashboard buckets. It is a
// pure projection of the dashboard query snapshot; the buckets are never
// recomputed client-side.
type Model struct {
	data    *model.Dashboard
	loading bool
	errMsg  string
	width   int
	height  int
}

// New creates a dashboard model.
func New(width, height int) Model {
	return Model{loading: true, width: width, height: height}
}

// SetData installs the latest dashboard snapshot.
func (m *Model) SetData(d *model.Dashboard) {
	m.data = d
	m.loading = false
	m.errMsg = ""
}

// SetLoading marks the initial fetch as in flight.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetError surfaces a fetch error. Previously set data stays visible.
func (m *Model) SetError(msg string) {
	m.errMsg = msg
	m.loading = false
}

// SetSize updates the render dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update is a no-op; the dashboard has no interactive state of its own.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the bucket columns.
func (m Model) View() string {
	if m.loading && m.data == nil {
		return lipgloss.NewStyle().Padding(1, 2).Render("Loading dashboard...")
	}

	var columns []string
	if m.data != nil {
		columns = []string{
			m.renderBucket("Assigned to me", m.data.AssignedToMe),
			m.renderBucket("Created by me", m.data.CreatedByMe),
			m.renderBucket("Overdue", m.data.Overdue),
		}
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	if m.errMsg != "" {
		content = lipgloss.JoinVertical(
			lipgloss.Left,
			theme.ErrorStyle.Render(m.errMsg),
			content,
		)
	}
	return lipgloss.NewStyle().Padding(1, 1).Render(content)
}

// renderBucket renders one column of up to bucketLimit tasks.
func (m Model) renderBucket(title string, tasks []model.Task) string {
	colWidth := m.width/3 - 4
	if colWidth < 24 {
		colWidth = 24
	}

	lines := []string{theme.PanelTitleStyle.Render(title)}

	if len(tasks) == 0 {
		lines = append(lines, theme.HelpStyle.Render("No tasks."))
	}

	shown := tasks
	if len(shown) > bucketLimit {
		shown = shown[:bucketLimit]
	}
	for _, t := range shown {
		lines = append(lines,
			lipgloss.NewStyle().Width(colWidth).Render(t.Title),
			theme.HelpStyle.Render(
				"due "+t.DueDate.Local().Format("2006-01-02 15:04"),
			),
		)
	}
	if extra := len(tasks) - len(shown); extra > 0 {
		lines = append(lines,
			theme.HelpStyle.Render(fmt.Sprintf("+%d more", extra)),
		)
	}

	return theme.PanelStyle.Width(colWidth + 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}
