package taskform

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdeck/internal/model"
)

func editableTask() model.Task {
	assignee := "u1"
	return model.Task{
		ID:           "t1",
		Title:        "Ship the release",
		Description:  "Cut the tag and announce.",
		DueDate:      time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Priority:     model.PriorityHigh,
		Status:       model.StatusInProgress,
		AssignedToID: &assignee,
	}
}

func TestEditSubmitOmitsUnchangedAssignee(t *testing.T) {
	m := New(80, 24)
	m.SetUsers([]model.User{
		{ID: "u1", Name: "Ada", Email: "ada@example.com"},
	})
	_ = m.StartEdit(editableTask())

	msg := m.handleSubmit()()
	edit, ok := msg.(EditSubmitMsg)
	require.True(t, ok)
	require.Equal(t, "t1", edit.TaskID)
	require.True(t, edit.Patch.AssignedToID.IsZero())

	body, err := json.Marshal(edit.Patch)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &fields))
	require.NotContains(t, fields, "assignedToId")
}

func TestEditSubmitSendsNullWhenAssigneeCleared(t *testing.T) {
	m := New(80, 24)
	m.SetUsers([]model.User{
		{ID: "u1", Name: "Ada", Email: "ada@example.com"},
	})
	_ = m.StartEdit(editableTask())
	m.fb.assigneeID = ""

	msg := m.handleSubmit()()
	edit := msg.(EditSubmitMsg)

	body, err := json.Marshal(edit.Patch)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &fields))
	require.Contains(t, fields, "assignedToId")
	require.Nil(t, fields["assignedToId"])
}

func TestAssigneeOptionsKeepCurrentAssigneeSelectable(t *testing.T) {
	// The user directory has not loaded; the select must still offer the
	// task's assignee or it would reset the bound value to "Unassigned".
	m := New(80, 24)
	_ = m.StartEdit(editableTask())

	values := make([]string, 0)
	for _, opt := range m.assigneeOptions() {
		values = append(values, opt.Value)
	}
	require.Contains(t, values, "u1")
	require.Equal(t, "u1", m.fb.assigneeID)
}

func TestAssigneeOptionsDoNotDuplicateKnownAssignee(t *testing.T) {
	m := New(80, 24)
	m.SetUsers([]model.User{
		{ID: "u1", Name: "Ada", Email: "ada@example.com"},
		{ID: "u2", Name: "Bob", Email: "bob@example.com"},
	})
	_ = m.StartEdit(editableTask())

	count := 0
	for _, opt := range m.assigneeOptions() {
		if opt.Value == "u1" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestDueInstantConvertsLocalWallClockToUTC(t *testing.T) {
	m := New(80, 24)
	m.fb.dueDate = "2026-03-14"
	m.fb.dueTime = "09:30"

	due := m.dueInstant()
	require.Equal(t, time.UTC, due.Location())

	// The instant corresponds to the entered wall-clock time in the
	// local zone, whatever that zone is.
	local := due.In(time.Local)
	require.Equal(t, "2026-03-14", local.Format("2006-01-02"))
	require.Equal(t, "09:30", local.Format("15:04"))
}

func TestCreateSubmitAlwaysStartsAsTodo(t *testing.T) {
	m := New(80, 24)
	_ = m.StartCreate()
	m.fb.title = "Write release notes"
	m.fb.dueDate = "2026-03-14"
	m.fb.dueTime = "09:30"

	msg := m.handleSubmit()()
	create, ok := msg.(CreateSubmitMsg)
	require.True(t, ok)
	require.Equal(t, model.StatusTodo, create.Input.Status)
	require.Empty(t, create.Input.AssignedToID)
}