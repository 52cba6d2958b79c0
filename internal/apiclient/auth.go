package apiclient

import (
	"context"
	"net/http"

	"github.com/kazz187/novapm/internal/user"
)

// Tokens is the pair the login endpoint issues.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*Tokens, error) {
	var out Tokens
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "/auth/login/",
		path:     "/auth/login/",
		public:   true,
		body:     credentials{Username: username, Password: password},
		fallback: "Invalid username or password",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh trades a refresh token for a new access token. The API may or may
// not rotate the refresh token; an empty Refresh in the result means keep the
// old one.
func (c *Client) Refresh(ctx context.Context, refresh string) (*Tokens, error) {
	if refresh == "" {
		return nil, missingToken()
	}
	var out Tokens
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "/auth/refresh/",
		path:     "/auth/refresh/",
		public:   true,
		body:     map[string]string{"refresh": refresh},
		fallback: UnauthorizedMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshSession is Refresh in the shape session.WithRefresher takes.
func (c *Client) RefreshSession(ctx context.Context, refresh string) (string, string, error) {
	t, err := c.Refresh(ctx, refresh)
	if err != nil {
		return "", "", err
	}
	return t.Access, t.Refresh, nil
}

func (c *Client) Register(ctx context.Context, reg user.Registration) (*user.User, error) {
	var out user.User
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "/users/register/",
		path:     "/users/register/",
		public:   true,
		body:     reg,
		fallback: "Failed to create account",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context, token string) (*user.User, error) {
	u, err := get[user.User](ctx, c, call{
		endpoint: "/users/me/",
		path:     "/users/me/",
		token:    token,
		fallback: UnauthorizedMessage,
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
