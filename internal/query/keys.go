package query

// Well-known cache key prefixes. Queries, mutations, and the realtime
// channel all address the same slots through these.
const (
	KeyMe            = "me"
	KeyUsers         = "users"
	KeyTasks         = "tasks"
	KeyDashboard     = "dashboard"
	KeyNotifications = "notifications"
)
