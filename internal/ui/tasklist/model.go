package tasklist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/api"
	"github.com/nhle/taskdeck/internal/keys"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
)

// FilterChangedMsg is sent when the server-side filter or sort changes
// so the owning model can observe the new query key.
type FilterChangedMsg struct {
	Filter api.TaskFilter
}

// EditTaskMsg is sent when the user opens a task for editing.
type EditTaskMsg struct {
	Task model.Task
}

// NewTaskMsg is sent when the user asks to create a task.
type NewTaskMsg struct{}

// DeleteTaskMsg is sent when the user deletes the selected task.
type DeleteTaskMsg struct {
	TaskID string
}

// ToggleDoneMsg is sent when the user flips the selected task between
// COMPLETED and TODO.
type ToggleDoneMsg struct {
	Task model.Task
}

// statusCycle and priorityCycle define the filter values cycled by the
// 1 and 2 keys; the empty value means "all".
var statusCycle = []model.TaskStatus{
	"", model.StatusTodo, model.StatusInProgress,
	model.StatusReview, model.StatusCompleted,
}

var priorityCycle = []model.TaskPriority{
	"", model.PriorityLow, model.PriorityMedium,
	model.PriorityHigh, model.PriorityUrgent,
}

// Model is the filterable, sortable task list view. Filtering and
// sorting happen server-side; changing them emits FilterChangedMsg and
// the list waits for fresh data.
type Model struct {
	list    list.Model
	keys    *keys.KeyMap
	filter  api.TaskFilter
	errMsg  string
	loading bool
	width   int
	height  int
}

// New creates a task list model with the default filter (all tasks,
// earliest due first).
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:    l,
		keys:    k,
		filter:  api.TaskFilter{SortDueDate: "asc"},
		loading: true,
		width:   width,
		height:  height,
	}
}

// Filter returns the current server-side filter.
func (m Model) Filter() api.TaskFilter { return m.filter }

// SetTasks installs the latest task list snapshot.
func (m *Model) SetTasks(tasks []model.Task) tea.Cmd {
	m.loading = false
	m.errMsg = ""
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
	}
	return m.list.SetItems(items)
}

// SetError surfaces a fetch error; previously loaded rows stay visible.
func (m *Model) SetError(msg string) {
	m.loading = false
	m.errMsg = msg
}

// SetLoading marks the current fetch as in flight.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if handled, next, cmd := m.handleKey(key); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKey processes list-level keys; navigation falls through to the
// underlying bubbles list.
func (m Model) handleKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Edit):
		task, ok := m.SelectedTask()
		if !ok {
			return true, m, nil
		}
		return true, m, func() tea.Msg { return EditTaskMsg{Task: task} }

	case key.Matches(msg, m.keys.NewTask):
		return true, m, func() tea.Msg { return NewTaskMsg{} }

	case key.Matches(msg, m.keys.Delete):
		task, ok := m.SelectedTask()
		if !ok {
			return true, m, nil
		}
		return true, m, func() tea.Msg { return DeleteTaskMsg{TaskID: task.ID} }

	case key.Matches(msg, m.keys.ToggleDone):
		task, ok := m.SelectedTask()
		if !ok {
			return true, m, nil
		}
		return true, m, func() tea.Msg { return ToggleDoneMsg{Task: task} }

	case key.Matches(msg, m.keys.FilterStatus):
		m.filter.Status = nextStatus(m.filter.Status)
		cmd := m.filterChanged()
		return true, m, cmd

	case key.Matches(msg, m.keys.FilterPriority):
		m.filter.Priority = nextPriority(m.filter.Priority)
		cmd := m.filterChanged()
		return true, m, cmd

	case key.Matches(msg, m.keys.CycleSort):
		if m.filter.SortDueDate == "asc" {
			m.filter.SortDueDate = "desc"
		} else {
			m.filter.SortDueDate = "asc"
		}
		cmd := m.filterChanged()
		return true, m, cmd
	}

	return false, m, nil
}

func (m *Model) filterChanged() tea.Cmd {
	m.loading = true
	filter := m.filter
	return func() tea.Msg { return FilterChangedMsg{Filter: filter} }
}

// FilterSummary describes the active filter for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	if m.filter.Status != "" {
		parts = append(parts, "status: "+string(m.filter.Status))
	}
	if m.filter.Priority != "" {
		parts = append(parts, "priority: "+string(m.filter.Priority))
	}
	if m.filter.SortDueDate == "desc" {
		parts = append(parts, "due: latest first")
	}
	return strings.Join(parts, " | ")
}

// View renders the list with any inline error above it.
func (m Model) View() string {
	var header string
	switch {
	case m.errMsg != "":
		header = theme.ErrorStyle.Render(m.errMsg) + "\n"
	case m.loading:
		header = theme.HelpStyle.Render("Loading tasks...") + "\n"
	}
	return header + m.list.View()
}

func nextStatus(cur model.TaskStatus) model.TaskStatus {
	for i, s := range statusCycle {
		if s == cur {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return ""
}

func nextPriority(cur model.TaskPriority) model.TaskPriority {
	for i, p := range priorityCycle {
		if p == cur {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return ""
}
