package profile

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/form"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
)

// SaveMsg is sent when the profile form is submitted with valid values.
type SaveMsg struct {
	Name string
}

// formBindings keeps the field value on the heap across model copies.
type formBindings struct {
	name string
}

// Model is the profile edit screen: a single display-name field backed
// by the current user snapshot.
type Model struct {
	huhForm    *huh.Form
	fb         *formBindings
	user       *model.User
	saved      bool
	submitting bool
	errMsg     string
	width      int
	height     int
}

// New creates a profile model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start initializes the form from the cached user.
func (m *Model) Start(user *model.User) tea.Cmd {
	m.user = user
	m.saved = false
	m.submitting = false
	m.errMsg = ""
	if user != nil {
		m.fb.name = user.Name
	}
	m.huhForm = m.build()
	return m.huhForm.Init()
}

// SetSaved marks the last save as confirmed by the server.
func (m *Model) SetSaved() {
	m.saved = true
	m.submitting = false
	m.huhForm = m.build()
}

// SetError surfaces a transport error inline.
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

// Update handles messages for the profile form.
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
		m.saved = false
		m.errMsg = ""
		name := m.fb.name
		return m, func() tea.Msg { return SaveMsg{Name: name} }
	}

	return m, cmd
}

// View renders the profile form with save state.
func (m Model) View() string {
	if m.huhForm == nil {
		return ""
	}

	parts := []string{
		theme.PanelTitleStyle.Render("Profile"),
		theme.HelpStyle.Render("Update your display name."),
		"",
		m.huhForm.View(),
	}
	if m.saved {
		parts = append(parts, theme.SuccessStyle.Render("Saved."))
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

func (m *Model) build() *huh.Form {
	schema := form.Profile()
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Value(&m.fb.name).
			Validate(schema.Rule("name")),
	)).WithWidth(formWidth(m.width))
}

func formWidth(w int) int {
	w -= 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
