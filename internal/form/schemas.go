package form

import "github.com/nhle/taskdeck/internal/model"

// Per-screen schemas. Constraints mirror what the server enforces;
// anything the server alone can judge (credentials, temporal ordering)
// is deliberately absent. In particular there is no client-side check
// that a due date lies in the future.

// Login validates the login screen.
func Login() Schema {
	return Schema{Fields: []Field{
		{Name: "email", Label: "Email", Required: true, Email: true},
		{Name: "password", Label: "Password", Required: true, MinLen: 8},
	}}
}

// Register validates the registration screen.
func Register() Schema {
	return Schema{Fields: []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "email", Label: "Email", Required: true, Email: true},
		{Name: "password", Label: "Password", Required: true, MinLen: 8},
	}}
}

// Profile validates the profile edit screen.
func Profile() Schema {
	return Schema{Fields: []Field{
		{Name: "name", Label: "Name", Required: true},
	}}
}

// Task validates the task create and edit forms.
func Task() Schema {
	return Schema{Fields: []Field{
		{Name: "title", Label: "Title", Required: true, MaxLen: 100},
		{Name: "description", Label: "Description"},
		{Name: "dueDate", Label: "Due date", Required: true, TimeLayout: "2006-01-02"},
		{Name: "dueTime", Label: "Due time", Required: true, TimeLayout: "15:04"},
		{Name: "priority", Label: "Priority", Required: true, Enum: enumStrings(model.Priorities)},
		{Name: "status", Label: "Status", Required: true, Enum: statusStrings(model.Statuses)},
	}}
}

func enumStrings(priorities []model.TaskPriority) []string {
	out := make([]string, len(priorities))
	for i, p := range priorities {
		out[i] = string(p)
	}
	return out
}

func statusStrings(statuses []model.TaskStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
