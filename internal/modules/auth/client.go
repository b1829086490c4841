package auth

import (
	"context"
	"fmt"

	"github.com/imrfidelz/djk-sub001/internal/rest"
)

// Client talks to the identity endpoints of the backing API.
type Client struct {
	rc *rest.Client
}

func NewClient(rc *rest.Client) *Client { return &Client{rc: rc} }

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.rc.Post(ctx, "/auth/login", body, &out); err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	return out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.rc.Get(ctx, "/auth/me", &u); err != nil {
		return nil, fmt.Errorf("fetch identity: %w", err)
	}
	return &u, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.rc.Post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
