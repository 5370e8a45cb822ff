package model

import "time"

// Notification is an alert surfaced to its owning user about activity on
// a task. Its only client-visible transition is unread -> read, which is
// one-way and idempotent.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Type names the event that produced the notification.
	Type string `json:"type"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// ReadAt is when the user marked the notification read, or nil
	// while it is unread.
	ReadAt *time.Time `json:"readAt"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"createdAt"`

	// UserID is the owning user.
	UserID string `json:"userId"`

	// TaskID links to the related task, when there is one.
	TaskID *string `json:"taskId"`
}

// Unread reports whether the notification has not been marked read yet.
func (n Notification) Unread() bool { return n.ReadAt == nil }

// UnreadCount counts the unread notifications in list.
func UnreadCount(list []Notification) int {
	count := 0
	for _, n := range list {
		if n.Unread() {
			count++
		}
	}
	return count
}
