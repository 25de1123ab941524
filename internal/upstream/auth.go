package upstream

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// StaffUser is a staff account as the upstream reports it.
type StaffUser struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Credentials is a staff login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the token pair and profile returned on login.
type LoginResult struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	User         StaffUser `json:"user"`
}

// TokenPair is the result of a token refresh.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var out LoginResult
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, "").SetBody(creds).SetResult(&out).Post("/auth/login")
	}, "staff login")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).Post("/auth/logout")
	}, "staff logout")
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var out TokenPair
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, "").
			SetBody(map[string]string{"refreshToken": refreshToken}).
			SetResult(&out).
			Post("/auth/refresh")
	}, "token refresh")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*StaffUser, error) {
	var out StaffUser
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/auth/profile")
	}, "staff profile")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, token, current, updated string) error {
	body := map[string]string{
		"currentPassword": current,
		"newPassword":     updated,
	}
	return c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(body).Post("/auth/change-password")
	}, "change password")
}
