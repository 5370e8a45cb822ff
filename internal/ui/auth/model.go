package auth

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdeck/internal/form"
	"github.com/nhle/taskdeck/internal/theme"
)

// SubmitLoginMsg is dispatched when a valid login form is submitted.
type SubmitLoginMsg struct {
	Email    string
	Password string
}

// SubmitRegisterMsg is dispatched when a valid registration form is
// submitted.
type SubmitRegisterMsg struct {
	Name     string
	Email    string
	Password string
}

// Mode selects which of the two account forms is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name     string
	email    string
	password string
}

// Model is the Bubble Tea model for the login and register screens.
// Validation errors stay inside the form; transport errors arrive via
// SetError and render inline under the form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	mode       Mode
	submitting bool
	errMsg     string
	width      int
	height     int
}

// New creates the auth model showing the login form.
func New(width, height int) Model {
	m := Model{
		fb:     &formBindings{},
		mode:   ModeLogin,
		width:  width,
		height: height,
	}
	return m
}

// Init builds and starts the active form.
func (m *Model) Init() tea.Cmd {
	m.form = m.buildForm()
	return m.form.Init()
}

// SetMode switches between login and registration, resetting the form.
func (m *Model) SetMode(mode Mode) tea.Cmd {
	m.mode = mode
	m.errMsg = ""
	m.submitting = false
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Mode returns the active form mode.
func (m Model) Mode() Mode { return m.mode }

// SetError surfaces a transport error message inline. The form stays on
// screen; no navigation occurs on a failed login or registration.
func (m *Model) SetError(msg string) {
	m.errMsg = msg
	m.submitting = false
	// Rebuild so the form accepts input again after a failed submit.
	m.form = m.buildForm()
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the auth screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+r" {
		mode := ModeRegister
		if m.mode == ModeRegister {
			mode = ModeLogin
		}
		cmd := m.SetMode(mode)
		return m, cmd
	}

	if m.form == nil || m.submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""
		return m, m.submit()
	}

	return m, cmd
}

// View renders the active form with any inline transport error.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := "Welcome back"
	subtitle := "Login to manage your tasks. ctrl+r to register instead."
	if m.mode == ModeRegister {
		title = "Create account"
		subtitle = "Register to start managing tasks. ctrl+r to login instead."
	}

	parts := []string{
		theme.PanelTitleStyle.Render(title),
		theme.HelpStyle.Render(subtitle),
		"",
		m.form.View(),
	}
	if m.errMsg != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errMsg))
	}
	if m.submitting {
		parts = append(parts, theme.HelpStyle.Render("Submitting..."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (m Model) submit() tea.Cmd {
	fb := *m.fb
	if m.mode == ModeRegister {
		return func() tea.Msg {
			return SubmitRegisterMsg{
				Name:     fb.name,
				Email:    fb.email,
				Password: fb.password,
			}
		}
	}
	return func() tea.Msg {
		return SubmitLoginMsg{Email: fb.email, Password: fb.password}
	}
}

func (m *Model) buildForm() *huh.Form {
	var schema form.Schema
	var fields []huh.Field

	if m.mode == ModeRegister {
		schema = form.Register()
		fields = append(fields,
			huh.NewInput().
				Title("Name").
				Value(&m.fb.name).
				Validate(schema.Rule("name")),
		)
	} else {
		schema = form.Login()
	}

	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.fb.email).
			Validate(schema.Rule("email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(schema.Rule("password")),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(formWidth(m.width)).
		WithHeight(formHeight(m.height))
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

func formHeight(h int) int {
	h -= 6
	if h < 10 {
		h = 10
	}
	return h
}
