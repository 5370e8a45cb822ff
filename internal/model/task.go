package model

import "time"

// TaskPriority is one of four ordered priority levels.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// TaskStatus is one of four workflow states. The client does not enforce
// transition legality; any status may be set to any other and the server
// remains the authority.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// Priorities lists all priority levels in ascending order.
var Priorities = []TaskPriority{
	PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent,
}

// Statuses lists all workflow states in nominal order.
var Statuses = []TaskStatus{
	StatusTodo, StatusInProgress, StatusReview, StatusCompleted,
}

// Task is a work item as transported by the API. All filtering, sorting
// and dashboard bucketing is done server-side; the client never computes
// derived task state.
type Task struct {
	// ID is the server-assigned unique identifier.
	ID string `json:"id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title"`

	// Description is the full body text. May be empty.
	Description string `json:"description"`

	// DueDate is the instant the task is due, in UTC.
	DueDate time.Time `json:"dueDate"`

	// Priority is one of the TaskPriority levels.
	Priority TaskPriority `json:"priority"`

	// Status is one of the TaskStatus workflow states.
	Status TaskStatus `json:"status"`

	// CreatorID references the user who created the task.
	CreatorID string `json:"creatorId"`

	// AssignedToID references the assignee, or is nil when unassigned.
	AssignedToID *string `json:"assignedToId"`

	// CreatedAt is when the task was created server-side.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the task was last modified server-side.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Dashboard holds the three server-computed task buckets relative to the
// current user.
type Dashboard struct {
	AssignedToMe []Task `json:"assignedToMe"`
	CreatedByMe  []Task `json:"createdByMe"`
	Overdue      []Task `json:"overdue"`
}
