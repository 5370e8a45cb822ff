package api

import (
	"context"

	"github.com/nhle/taskdeck/internal/model"
)

// UpdateMeInput is the payload for editing the current user's profile.
type UpdateMeInput struct {
	Name string `json:"name"`
}

type usersEnvelope struct {
	Users []model.User `json:"users"`
}

// Me fetches the currently authenticated user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var env userEnvelope
	if err := c.get(ctx, "/users/me", nil, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// UpdateMe updates the current user's profile.
func (c *Client) UpdateMe(
	ctx context.Context,
	input UpdateMeInput,
) (*model.User, error) {
	var env userEnvelope
	if err := c.patch(ctx, "/users/me", input, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// ListUsers fetches all users, used to populate assignee selectors.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var env usersEnvelope
	if err := c.get(ctx, "/users", nil, &env); err != nil {
		return nil, err
	}
	return env.Users, nil
}
