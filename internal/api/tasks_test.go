package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/taskdeck/internal/model"
)

func TestCreateTaskInputOmitsEmptyAssignee(t *testing.T) {
	due := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	input := CreateTaskInput{
		Title:    "Write release notes",
		DueDate:  due,
		Priority: model.PriorityHigh,
		Status:   model.StatusTodo,
	}

	data, err := json.Marshal(input)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))

	require.Equal(t, "TODO", body["status"])
	require.Equal(t, "2026-03-14T09:30:00Z", body["dueDate"])
	require.NotContains(t, body, "assignedToId")
}

func TestCreateTaskInputCarriesAssignee(t *testing.T) {
	input := CreateTaskInput{
		Title:        "Review deploy checklist",
		DueDate:      time.Now().UTC(),
		Priority:     model.PriorityMedium,
		Status:       model.StatusTodo,
		AssignedToID: "user-42",
	}

	data, err := json.Marshal(input)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	require.Equal(t, "user-42", body["assignedToId"])
}

func TestTaskPatchOmitsUnsetFields(t *testing.T) {
	status := model.StatusCompleted
	patch := TaskPatch{Status: &status}

	data, err := json.Marshal(patch)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))

	require.Len(t, body, 1)
	require.Equal(t, "COMPLETED", body["status"])
}

func TestTaskPatchDistinguishesUnassignFromUnchanged(t *testing.T) {
	// Unchanged: the key must be absent entirely.
	unchanged, err := json.Marshal(TaskPatch{})
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(unchanged))

	// Unassign: the key must be present with an explicit null.
	cleared, err := json.Marshal(TaskPatch{AssignedToID: NullID()})
	require.NoError(t, err)
	require.JSONEq(t, `{"assignedToId":null}`, string(cleared))

	// Reassign: the key carries the new id.
	assigned, err := json.Marshal(TaskPatch{AssignedToID: SetID("user-7")})
	require.NoError(t, err)
	require.JSONEq(t, `{"assignedToId":"user-7"}`, string(assigned))
}

func TestTaskFilterQuery(t *testing.T) {
	q := TaskFilter{
		Status:      model.StatusInProgress,
		Priority:    model.PriorityUrgent,
		SortDueDate: "desc",
	}.Query()

	require.Equal(t, "IN_PROGRESS", q.Get("status"))
	require.Equal(t, "URGENT", q.Get("priority"))
	require.Equal(t, "desc", q.Get("sortDueDate"))

	empty := TaskFilter{}.Query()
	require.Empty(t, empty)
}
