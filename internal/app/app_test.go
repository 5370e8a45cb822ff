package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdeck/internal/api"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/query"
	"github.com/nhle/taskdeck/internal/realtime"
)

func newTestModel() Model {
	cache := query.NewCache()
	client := api.NewClient("http://localhost:0/api/v1")
	channel := realtime.New("ws://localhost:0/ws", cache)
	m := New(client, cache, channel, time.Second)
	m.booting = false
	m.user = &model.User{ID: "u1", Email: "ada@example.com", Name: "Ada"}
	return m
}

func TestLogoutResultReturnsLoginState(t *testing.T) {
	m := newTestModel()
	m.view = ViewDashboard

	next, _ := m.Update(logoutDoneMsg{})

	// The returned model must carry the reset state, not a copy taken
	// before the reset ran.
	got := next.(Model)
	require.Equal(t, ViewAuth, got.view)
	require.Nil(t, got.user)
	require.Zero(t, got.unread)
}

func TestPanelKeysSwitchTheReturnedView(t *testing.T) {
	press := func(m Model, r rune) Model {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		return next.(Model)
	}

	m := newTestModel()
	m.view = ViewDashboard

	require.Equal(t, ViewTasks, press(m, 't').view)
	require.Equal(t, ViewNotifications, press(m, 'N').view)
	require.Equal(t, ViewProfile, press(m, 'P').view)
}

func TestTaskSavedFromFormReturnsToTaskList(t *testing.T) {
	m := newTestModel()
	m.view = ViewTaskForm

	next, _ := m.Update(taskSavedMsg{fromForm: true})
	require.Equal(t, ViewTasks, next.(Model).view)
}