package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/api"
	"github.com/nhle/taskdeck/internal/keys"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/query"
	"github.com/nhle/taskdeck/internal/realtime"
	"github.com/nhle/taskdeck/internal/theme"
	"github.com/nhle/taskdeck/internal/ui"
	"github.com/nhle/taskdeck/internal/ui/auth"
	"github.com/nhle/taskdeck/internal/ui/dashboard"
	"github.com/nhle/taskdeck/internal/ui/help"
	"github.com/nhle/taskdeck/internal/ui/notifications"
	"github.com/nhle/taskdeck/internal/ui/profile"
	"github.com/nhle/taskdeck/internal/ui/taskform"
	"github.com/nhle/taskdeck/internal/ui/tasklist"
)

// ViewState identifies the active screen.
type ViewState int

const (
	ViewAuth ViewState = iota
	ViewDashboard
	ViewTasks
	ViewTaskForm
	ViewNotifications
	ViewProfile
	ViewHelp
)

// Model is the root Bubble Tea model. It owns the shared query cache,
// the realtime channel, and the per-screen models, and routes messages
// between them. On start it checks the restored session; a valid
// session lands on the dashboard and connects the realtime channel,
// anything else falls back to the login screen.
type Model struct {
	client  *api.Client
	cache   *query.Cache
	channel *realtime.Channel
	keys    *keys.KeyMap
	layout  ui.Layout

	notificationPoll time.Duration

	view     ViewState
	prevView ViewState
	booting  bool
	user     *model.User
	unread   int

	observed map[query.Key]bool
	muts     mutations

	authView auth.Model
	dashView dashboard.Model
	listView tasklist.Model
	formView taskform.Model
	noteView notifications.Model
	profView profile.Model
	helpView help.Model
}

// New creates the root model. The session restored into the client's
// cookie jar, if any, is validated during Init.
func New(
	client *api.Client,
	cache *query.Cache,
	channel *realtime.Channel,
	notificationPoll time.Duration,
) Model {
	k := keys.DefaultKeyMap()
	const w, h = 80, 24

	return Model{
		client:           client,
		cache:            cache,
		channel:          channel,
		keys:             k,
		layout:           ui.NewLayout(w, h),
		notificationPoll: notificationPoll,
		view:             ViewDashboard,
		booting:          true,
		observed:         make(map[query.Key]bool),
		muts:             newMutations(cache),
		authView:         auth.New(w, h),
		dashView:         dashboard.New(w, h),
		listView:         tasklist.New(k, w, h),
		formView:         taskform.New(w, h),
		noteView:         notifications.New(k, w, h),
		profView:         profile.New(w, h),
		helpView:         help.New(k, w),
	}
}

// Init starts the session check and the cache event subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reconcileObservations(), m.waitForCacheEvent())
}

// Update routes messages to the active screen and applies app-level
// transitions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case cacheEventMsg:
		cmd := m.applySnapshot(msg.Key)
		return m, tea.Batch(m.waitForCacheEvent(), cmd)

	// Screen intents.
	case auth.SubmitLoginMsg:
		return m, m.cmdLogin(msg)
	case auth.SubmitRegisterMsg:
		return m, m.cmdRegister(msg)
	case tasklist.FilterChangedMsg:
		cmd := m.reconcileObservations()
		return m, cmd
	case tasklist.NewTaskMsg:
		m.view = ViewTaskForm
		cmd := tea.Batch(m.formView.StartCreate(), m.reconcileObservations())
		return m, cmd
	case tasklist.EditTaskMsg:
		m.view = ViewTaskForm
		cmd := tea.Batch(m.formView.StartEdit(msg.Task), m.reconcileObservations())
		return m, cmd
	case tasklist.DeleteTaskMsg:
		return m, m.cmdDeleteTask(msg)
	case tasklist.ToggleDoneMsg:
		return m, m.cmdToggleDone(msg)
	case taskform.CreateSubmitMsg:
		return m, m.cmdCreateTask(msg)
	case taskform.EditSubmitMsg:
		return m, m.cmdUpdateTask(msg)
	case taskform.CancelMsg:
		m.view = ViewTasks
		cmd := m.reconcileObservations()
		return m, cmd
	case notifications.MarkReadMsg:
		return m, m.cmdMarkRead(msg)
	case profile.SaveMsg:
		return m, m.cmdSaveProfile(msg)

	// Write results.
	case authDoneMsg:
		return m.handleAuthDone(msg)
	case taskSavedMsg:
		return m.handleTaskSaved(msg)
	case taskDeletedMsg:
		if msg.err != nil {
			m.listView.SetError(api.ErrorMessage(msg.err, "deleting task failed"))
		}
		return m, nil
	case profileSavedMsg:
		if msg.err != nil {
			m.profView.SetError(api.ErrorMessage(msg.err, "saving profile failed"))
			return m, nil
		}
		m.user = msg.user
		m.profView.SetSaved()
		return m, nil
	case markReadDoneMsg:
		if msg.err != nil {
			m.noteView.SetError(api.ErrorMessage(msg.err, "marking notification read failed"))
		}
		return m, nil
	case logoutDoneMsg:
		// The receiver call mutates m; hoist it so the mutated copy is
		// the one returned.
		cmd := m.resetToLogin("")
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.routeToView(msg)
}

// applySnapshot reacts to one settled fetch. The session query doubles
// as the authentication gate: its first success finishes boot, a 401 at
// any point tears the session down.
func (m *Model) applySnapshot(k query.Key) tea.Cmd {
	res := m.cache.Get(k)

	if k.Op() == query.KeyMe && res.IsError() {
		if api.IsUnauthorized(res.Err) {
			return m.resetToLogin("")
		}
		if m.booting {
			return m.resetToLogin(
				api.ErrorMessage(res.Err, "could not reach the server"),
			)
		}
		return nil
	}

	if k.Op() == query.KeyMe && m.booting && res.IsSuccess() {
		if u, ok := res.Data.(*model.User); ok {
			m.user = u
		}
		m.booting = false
		m.view = ViewDashboard
		m.channel.Connect()
		return m.reconcileObservations()
	}

	return m.push(k, res)
}

func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.authView.SetError(api.ErrorMessage(msg.err, "authentication failed"))
		return m, nil
	}
	m.user = msg.user
	m.booting = false
	m.view = ViewDashboard
	m.channel.Connect()
	cmd := m.reconcileObservations()
	return m, cmd
}

func (m Model) handleTaskSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		emsg := api.ErrorMessage(msg.err, "saving task failed")
		if msg.fromForm {
			m.formView.SetError(emsg)
		} else {
			m.listView.SetError(emsg)
		}
		return m, nil
	}
	if msg.fromForm && m.view == ViewTaskForm {
		m.view = ViewTasks
		cmd := m.reconcileObservations()
		return m, cmd
	}
	return m, nil
}

// resetToLogin tears down all session state and shows the login form,
// optionally with an inline error.
func (m *Model) resetToLogin(errMsg string) tea.Cmd {
	for k := range m.observed {
		m.cache.Unobserve(k)
		delete(m.observed, k)
	}
	m.cache.Clear()
	m.channel.Close()
	_ = m.client.ClearSession()

	m.user = nil
	m.unread = 0
	m.booting = false
	m.view = ViewAuth

	if errMsg != "" {
		m.authView.SetError(errMsg)
	}
	return m.authView.Init()
}

// isFormView reports whether the active screen captures most keys for
// text entry.
func (m Model) isFormView() bool {
	return m.view == ViewAuth || m.view == ViewTaskForm || m.view == ViewProfile
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.isFormView() {
		// esc leaves the editing screens; the auth screen has nowhere
		// to go back to.
		if msg.String() == "esc" {
			switch m.view {
			case ViewTaskForm:
				m.view = ViewTasks
				cmd := m.reconcileObservations()
				return m, cmd
			case ViewProfile:
				m.view = ViewDashboard
				cmd := m.reconcileObservations()
				return m, cmd
			}
		}
		return m.routeToView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.view == ViewHelp {
			m.view = m.prevView
			return m, nil
		}
		m.prevView = m.view
		m.view = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.view == ViewHelp {
			m.view = m.prevView
			return m, nil
		}
		if m.view != ViewDashboard {
			m.view = ViewDashboard
			cmd := m.reconcileObservations()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Tasks):
		m.view = ViewTasks
		cmd := m.reconcileObservations()
		return m, cmd

	case key.Matches(msg, m.keys.Notifications):
		m.view = ViewNotifications
		cmd := m.reconcileObservations()
		return m, cmd

	case key.Matches(msg, m.keys.Profile):
		m.view = ViewProfile
		cmd := tea.Batch(m.profView.Start(m.user), m.reconcileObservations())
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		m.refreshCurrent()
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m, m.cmdLogout()
	}

	return m.routeToView(msg)
}

// routeToView forwards a message to the active screen's model.
func (m Model) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewAuth:
		m.authView, cmd = m.authView.Update(msg)
	case ViewTasks:
		m.listView, cmd = m.listView.Update(msg)
	case ViewTaskForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewNotifications:
		m.noteView, cmd = m.noteView.Update(msg)
	case ViewProfile:
		m.profView, cmd = m.profView.Update(msg)
	}
	return m, cmd
}

func (m *Model) setSize(width, height int) {
	m.layout = ui.NewLayout(width, height)
	cw, ch := m.layout.ContentWidth(), m.layout.ContentHeight()

	m.authView.SetSize(cw, ch)
	m.dashView.SetSize(cw, ch)
	m.listView.SetSize(cw, ch)
	m.formView.SetSize(cw, ch)
	m.noteView.SetSize(cw, ch)
	m.profView.SetSize(cw, ch)
	m.helpView.SetSize(cw)
}

// View renders the frame: header, active screen, status bar.
func (m Model) View() string {
	var content string
	switch {
	case m.booting:
		content = theme.HelpStyle.Render("Checking session...")
	case m.view == ViewAuth:
		content = m.authView.View()
	case m.view == ViewDashboard:
		content = m.dashView.View()
	case m.view == ViewTasks:
		content = m.listView.View()
	case m.view == ViewTaskForm:
		content = m.formView.View()
	case m.view == ViewNotifications:
		content = m.noteView.View()
	case m.view == ViewProfile:
		content = m.profView.View()
	case m.view == ViewHelp:
		content = m.helpView.View()
	}

	header := m.layout.RenderHeader("taskdeck", m.headerStatus())
	statusBar := m.layout.RenderStatusBar(m.statusHints())
	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) headerStatus() string {
	if m.user == nil {
		return "signed out"
	}
	if m.unread > 0 {
		return fmt.Sprintf("%s  %s",
			theme.BadgeStyle.Render(fmt.Sprintf("● %d", m.unread)),
			m.user.Email,
		)
	}
	return m.user.Email
}

func (m Model) statusHints() string {
	switch m.view {
	case ViewAuth:
		return "enter submit • ctrl+r switch login/register • ctrl+c quit"
	case ViewTaskForm, ViewProfile:
		return "enter next • esc cancel • ctrl+c quit"
	case ViewTasks:
		if summary := m.listView.FilterSummary(); summary != "" {
			return summary + "  •  " + m.helpView.ShortView()
		}
	}
	return m.helpView.ShortView()
}
