package api

import (
	"context"

	"github.com/nhle/taskdeck/internal/model"
)

type notificationEnvelope struct {
	Notification model.Notification `json:"notification"`
}

type notificationsEnvelope struct {
	Notifications []model.Notification `json:"notifications"`
}

// ListNotifications fetches the current user's notifications, newest
// first as ordered by the server.
func (c *Client) ListNotifications(
	ctx context.Context,
) ([]model.Notification, error) {
	var env notificationsEnvelope
	if err := c.get(ctx, "/notifications", nil, &env); err != nil {
		return nil, err
	}
	return env.Notifications, nil
}

// MarkNotificationRead marks a notification read. The transition is
// one-way and idempotent: marking an already-read notification succeeds.
func (c *Client) MarkNotificationRead(
	ctx context.Context,
	id string,
) (*model.Notification, error) {
	var env notificationEnvelope
	err := c.patch(ctx, "/notifications/"+id+"/read", nil, &env)
	if err != nil {
		return nil, err
	}
	return &env.Notification, nil
}
