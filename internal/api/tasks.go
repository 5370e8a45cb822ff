package api

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/nhle/taskdeck/internal/model"
)

// TaskFilter holds the server-side filter and sort parameters for the
// task list. Zero values mean "no filter".
type TaskFilter struct {
	Status      model.TaskStatus
	Priority    model.TaskPriority
	SortDueDate string // "asc" or "desc"
}

// Query encodes the filter as URL query parameters.
func (f TaskFilter) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	if f.SortDueDate != "" {
		q.Set("sortDueDate", f.SortDueDate)
	}
	return q
}

// CreateTaskInput is the payload for creating a task. AssignedToID is
// omitted from the request entirely when empty.
type CreateTaskInput struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	DueDate      time.Time          `json:"dueDate"`
	Priority     model.TaskPriority `json:"priority"`
	Status       model.TaskStatus   `json:"status"`
	AssignedToID string             `json:"assignedToId,omitempty"`
}

// TaskPatch is a partial update. Nil fields are omitted from the request
// so the server leaves them untouched. AssignedToID distinguishes
// "leave unchanged" (unset) from "unassign" (set to nil).
type TaskPatch struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	DueDate      *time.Time          `json:"dueDate,omitempty"`
	Priority     *model.TaskPriority `json:"priority,omitempty"`
	Status       *model.TaskStatus   `json:"status,omitempty"`
	AssignedToID OptionalID          `json:"assignedToId,omitzero"`
}

// OptionalID is a patch field that can be absent, null, or a value.
// The zero value is absent and is dropped by omitzero.
type OptionalID struct {
	set   bool
	value *string
}

// SetID returns an OptionalID carrying the given assignee id.
func SetID(id string) OptionalID {
	return OptionalID{set: true, value: &id}
}

// NullID returns an OptionalID that serializes as an explicit null,
// clearing the assignee.
func NullID() OptionalID {
	return OptionalID{set: true}
}

// IsZero reports whether the field is absent, for encoding/json omitzero.
func (o OptionalID) IsZero() bool { return !o.set }

// MarshalJSON serializes the carried value, or null when clearing.
func (o OptionalID) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.value)
}

type taskEnvelope struct {
	Task model.Task `json:"task"`
}

type tasksEnvelope struct {
	Tasks []model.Task `json:"tasks"`
}

// ListTasks fetches tasks matching the filter. Filtering and sorting are
// delegated to the server.
func (c *Client) ListTasks(
	ctx context.Context,
	filter TaskFilter,
) ([]model.Task, error) {
	var env tasksEnvelope
	if err := c.get(ctx, "/tasks", filter.Query(), &env); err != nil {
		return nil, err
	}
	return env.Tasks, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(
	ctx context.Context,
	input CreateTaskInput,
) (*model.Task, error) {
	var env taskEnvelope
	if err := c.post(ctx, "/tasks", input, &env); err != nil {
		return nil, err
	}
	return &env.Task, nil
}

// UpdateTask applies a partial update to the task with the given id.
func (c *Client) UpdateTask(
	ctx context.Context,
	id string,
	patch TaskPatch,
) (*model.Task, error) {
	var env taskEnvelope
	if err := c.patch(ctx, "/tasks/"+id, patch, &env); err != nil {
		return nil, err
	}
	return &env.Task, nil
}

// DeleteTask deletes the task with the given id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	var env okEnvelope
	return c.delete(ctx, "/tasks/"+id, &env)
}

// Dashboard fetches the three server-computed task buckets.
func (c *Client) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	var d model.Dashboard
	if err := c.get(ctx, "/tasks/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
