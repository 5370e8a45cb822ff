package api

import (
	"context"

	"github.com/nhle/taskdeck/internal/model"
)

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginInput is the payload for starting a session.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userEnvelope struct {
	User model.User `json:"user"`
}

type okEnvelope struct {
	OK bool `json:"ok"`
}

// Register creates an account and starts a session. The server sets the
// session cookie on the response; the client's jar picks it up.
func (c *Client) Register(
	ctx context.Context,
	input RegisterInput,
) (*model.User, error) {
	var env userEnvelope
	if err := c.post(ctx, "/auth/register", input, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// Login starts a session for an existing account.
func (c *Client) Login(
	ctx context.Context,
	input LoginInput,
) (*model.User, error) {
	var env userEnvelope
	if err := c.post(ctx, "/auth/login", input, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// Logout ends the current session server-side.
func (c *Client) Logout(ctx context.Context) error {
	var env okEnvelope
	return c.post(ctx, "/auth/logout", nil, &env)
}
