package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/api"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/query"
	"github.com/nhle/taskdeck/internal/ui/auth"
	"github.com/nhle/taskdeck/internal/ui/notifications"
	"github.com/nhle/taskdeck/internal/ui/profile"
	"github.com/nhle/taskdeck/internal/ui/taskform"
	"github.com/nhle/taskdeck/internal/ui/tasklist"
)

// mutations holds one executor per write operation, each declaring the
// cache prefixes its success invalidates. Updating a task additionally
// invalidates notifications since reassignment notifies the assignee.
type mutations struct {
	login       *query.Mutation
	register    *query.Mutation
	createTask  *query.Mutation
	updateTask  *query.Mutation
	deleteTask  *query.Mutation
	saveProfile *query.Mutation
	markRead    *query.Mutation
}

func newMutations(c *query.Cache) mutations {
	return mutations{
		login:    query.NewMutation(c, query.KeyMe),
		register: query.NewMutation(c, query.KeyMe),
		createTask: query.NewMutation(
			c, query.KeyTasks, query.KeyDashboard,
		),
		updateTask: query.NewMutation(
			c, query.KeyTasks, query.KeyDashboard, query.KeyNotifications,
		),
		deleteTask: query.NewMutation(
			c, query.KeyTasks, query.KeyDashboard,
		),
		saveProfile: query.NewMutation(c, query.KeyMe),
		markRead:    query.NewMutation(c, query.KeyNotifications),
	}
}

// Write results, routed back into the owning view by Update.
type (
	authDoneMsg struct {
		user *model.User
		err  error
	}
	taskSavedMsg struct {
		fromForm bool
		err      error
	}
	taskDeletedMsg struct {
		err error
	}
	profileSavedMsg struct {
		user *model.User
		err  error
	}
	markReadDoneMsg struct {
		err error
	}
	logoutDoneMsg struct {
		err error
	}
)

func (m *Model) cmdLogin(msg auth.SubmitLoginMsg) tea.Cmd {
	client, mut := m.client, m.muts.login
	return func() tea.Msg {
		var user *model.User
		err := mut.Run(context.Background(), func(ctx context.Context) error {
			u, err := client.Login(ctx, api.LoginInput{
				Email:    msg.Email,
				Password: msg.Password,
			})
			if err != nil {
				return err
			}
			user = u
			return client.SaveSession()
		})
		return authDoneMsg{user: user, err: err}
	}
}

func (m *Model) cmdRegister(msg auth.SubmitRegisterMsg) tea.Cmd {
	client, mut := m.client, m.muts.register
	return func() tea.Msg {
		var user *model.User
		err := mut.Run(context.Background(), func(ctx context.Context) error {
			u, err := client.Register(ctx, api.RegisterInput{
				Name:     msg.Name,
				Email:    msg.Email,
				Password: msg.Password,
			})
			if err != nil {
				return err
			}
			user = u
			return client.SaveSession()
		})
		return authDoneMsg{user: user, err: err}
	}
}

func (m *Model) cmdCreateTask(msg taskform.CreateSubmitMsg) tea.Cmd {
	client, mut := m.client, m.muts.createTask
	return func() tea.Msg {
		err := mut.Run(context.Background(), func(ctx context.Context) error {
			_, err := client.CreateTask(ctx, msg.Input)
			return err
		})
		return taskSavedMsg{fromForm: true, err: err}
	}
}

func (m *Model) cmdUpdateTask(msg taskform.EditSubmitMsg) tea.Cmd {
	client, mut := m.client, m.muts.updateTask
	return func() tea.Msg {
		err := mut.Run(context.Background(), func(ctx context.Context) error {
			_, err := client.UpdateTask(ctx, msg.TaskID, msg.Patch)
			return err
		})
		return taskSavedMsg{fromForm: true, err: err}
	}
}

// cmdToggleDone flips a task between COMPLETED and TODO straight from
// the list.
func (m *Model) cmdToggleDone(msg tasklist.ToggleDoneMsg) tea.Cmd {
	client, mut := m.client, m.muts.updateTask
	next := model.StatusCompleted
	if msg.Task.Status == model.StatusCompleted {
		next = model.StatusTodo
	}
	taskID := msg.Task.ID
	return func() tea.Msg {
		err := mut.Run(context.Background(), func(ctx context.Context) error {
			_, err := client.UpdateTask(ctx, taskID, api.TaskPatch{Status: &next})
			return err
		})
		return taskSavedMsg{err: err}
	}
}

func (m *Model) cmdDeleteTask(msg tasklist.DeleteTaskMsg) tea.Cmd {
	client, mut := m.client, m.muts.deleteTask
	return func() tea.Msg {
		err := mut.Run(context.Background(), func(ctx context.Context) error {
			return client.DeleteTask(ctx, msg.TaskID)
		})
		return taskDeletedMsg{err: err}
	}
}

func (m *Model) cmdSaveProfile(msg profile.SaveMsg) tea.Cmd {
	client, mut := m.client, m.muts.saveProfile
	return func() tea.Msg {
		var user *model.User
		err := mut.Run(context.Background(), func(ctx context.Context) error {
			u, err := client.UpdateMe(ctx, api.UpdateMeInput{Name: msg.Name})
			if err != nil {
				return err
			}
			user = u
			return nil
		})
		return profileSavedMsg{user: user, err: err}
	}
}

func (m *Model) cmdMarkRead(msg notifications.MarkReadMsg) tea.Cmd {
	client, mut := m.client, m.muts.markRead
	return func() tea.Msg {
		err := mut.Run(context.Background(), func(ctx context.Context) error {
			_, err := client.MarkNotificationRead(ctx, msg.NotificationID)
			return err
		})
		return markReadDoneMsg{err: err}
	}
}

// cmdLogout ends the session server-side. Local state is torn down when
// the result lands regardless of the server's answer.
func (m *Model) cmdLogout() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return logoutDoneMsg{err: client.Logout(context.Background())}
	}
}
