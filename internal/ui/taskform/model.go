package taskform

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/api"
	"github.com/nhle/taskdeck/internal/form"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
)

// CreateSubmitMsg is dispatched when the create form is submitted with
// valid values.
type CreateSubmitMsg struct {
	Input api.CreateTaskInput
}

// EditSubmitMsg is dispatched when the edit form is submitted with
// valid values.
type EditSubmitMsg struct {
	TaskID string
	Patch  api.TaskPatch
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	dueDate     string
	dueTime     string
	priority    string
	status      string
	assigneeID  string
}

// Model is the Bubble Tea model for the task create/edit form. New
// tasks are always submitted with status TODO; the status selector only
// appears when editing, and offers every workflow state since the
// client does not restrict transitions.
type Model struct {
	huhForm    *huh.Form
	fb         *formBindings
	schema     form.Schema
	editMode   bool
	editing    model.Task
	users      []model.User
	submitting bool
	errMsg     string
	width      int
	height     int
}

// New creates a task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: string(model.PriorityMedium)},
		schema: form.Task(),
		width:  width,
		height: height,
	}
}

// SetUsers sets the accounts offered by the assignee selector.
func (m *Model) SetUsers(users []model.User) {
	m.users = users
}

// SetError surfaces a transport error inline and re-enables the form.
func (m *Model) SetError(msg string) {
	m.errMsg = msg
	m.submitting = false
	m.huhForm = m.build()
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editing = model.Task{}
	m.submitting = false
	m.errMsg = ""
	*m.fb = formBindings{priority: string(model.PriorityMedium)}
	m.huhForm = m.build()
	return m.huhForm.Init()
}

// StartEdit initializes the form with an existing task's values.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editing = task
	m.submitting = false
	m.errMsg = ""

	due := task.DueDate.Local()
	*m.fb = formBindings{
		title:       task.Title,
		description: task.Description,
		dueDate:     due.Format(dateLayout),
		dueTime:     due.Format(timeLayout),
		priority:    string(task.Priority),
		status:      string(task.Status),
	}
	if task.AssignedToID != nil {
		m.fb.assigneeID = *task.AssignedToID
	}

	m.huhForm = m.build()
	return m.huhForm.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.huhForm == nil || m.submitting {
		return m, nil
	}

	mdl, cmd := m.huhForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.huhForm = f
	}

	if m.huhForm.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""
		return m, m.handleSubmit()
	}
	if m.huhForm.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.huhForm == nil {
		return ""
	}

	title := "New Task"
	if m.editMode {
		title = "Edit Task"
	}

	parts := []string{
		theme.PanelTitleStyle.Render(title),
		"",
		m.huhForm.View(),
	}
	if m.errMsg != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errMsg))
	}
	if m.submitting {
		parts = append(parts, theme.HelpStyle.Render("Saving..."))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

// handleSubmit assembles the typed payload. The due instant is the
// local wall-clock date+time converted to UTC. Create omits the
// assignee entirely when unassigned; edit sends assignedToId only when
// it differs from the task's current value.
func (m Model) handleSubmit() tea.Cmd {
	due := m.dueInstant()

	if !m.editMode {
		input := api.CreateTaskInput{
			Title:        m.fb.title,
			Description:  m.fb.description,
			DueDate:      due,
			Priority:     model.TaskPriority(m.fb.priority),
			Status:       model.StatusTodo,
			AssignedToID: m.fb.assigneeID,
		}
		return func() tea.Msg { return CreateSubmitMsg{Input: input} }
	}

	title := m.fb.title
	description := m.fb.description
	priority := model.TaskPriority(m.fb.priority)
	status := model.TaskStatus(m.fb.status)

	patch := api.TaskPatch{
		Title:       &title,
		Description: &description,
		DueDate:     &due,
		Priority:    &priority,
		Status:      &status,
	}

	prev := ""
	if m.editing.AssignedToID != nil {
		prev = *m.editing.AssignedToID
	}
	if m.fb.assigneeID != prev {
		if m.fb.assigneeID == "" {
			patch.AssignedToID = api.NullID()
		} else {
			patch.AssignedToID = api.SetID(m.fb.assigneeID)
		}
	}

	taskID := m.editing.ID
	return func() tea.Msg { return EditSubmitMsg{TaskID: taskID, Patch: patch} }
}

// dueInstant parses the validated date and time fields in the local
// zone and converts to UTC.
func (m Model) dueInstant() time.Time {
	t, err := time.ParseInLocation(
		dateLayout+" "+timeLayout,
		m.fb.dueDate+" "+m.fb.dueTime,
		time.Local,
	)
	if err != nil {
		// Field validation already passed; this is unreachable in
		// practice but degrade to now rather than panic.
		return time.Now().UTC()
	}
	return t.UTC()
}

func (m *Model) build() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(m.schema.Rule("title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewInput().
			Title("Due date").
			Placeholder(dateLayout).
			Value(&m.fb.dueDate).
			Validate(m.schema.Rule("dueDate")),
		huh.NewInput().
			Title("Due time").
			Placeholder(timeLayout).
			Value(&m.fb.dueTime).
			Validate(m.schema.Rule("dueTime")),
		m.priorityField(),
		m.assigneeField(),
	}

	if m.editMode {
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Todo", string(model.StatusTodo)),
					huh.NewOption("In progress", string(model.StatusInProgress)),
					huh.NewOption("Review", string(model.StatusReview)),
					huh.NewOption("Completed", string(model.StatusCompleted)),
				).
				Value(&m.fb.status),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(m.formWidth()).
		WithHeight(m.formHeight())
}

func (m *Model) priorityField() huh.Field {
	return huh.NewSelect[string]().
		Title("Priority").
		Options(
			huh.NewOption("Low", string(model.PriorityLow)),
			huh.NewOption("Medium", string(model.PriorityMedium)),
			huh.NewOption("High", string(model.PriorityHigh)),
			huh.NewOption("Urgent", string(model.PriorityUrgent)),
		).
		Value(&m.fb.priority)
}

func (m *Model) assigneeField() huh.Field {
	return huh.NewSelect[string]().
		Title("Assignee").
		Options(m.assigneeOptions()...).
		Value(&m.fb.assigneeID)
}

// assigneeOptions builds the selector options. The select resets a
// bound value that is missing from its options, so when editing, the
// task's current assignee is always offered even while the user
// directory is still loading; otherwise opening and submitting the form
// would silently unassign the task.
func (m *Model) assigneeOptions() []huh.Option[string] {
	opts := []huh.Option[string]{
		huh.NewOption("Unassigned", ""),
	}

	current := ""
	if m.editMode && m.editing.AssignedToID != nil {
		current = *m.editing.AssignedToID
	}

	known := false
	for _, u := range m.users {
		opts = append(opts, huh.NewOption(u.Name+" ("+u.Email+")", u.ID))
		if u.ID == current {
			known = true
		}
	}
	if current != "" && !known {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
