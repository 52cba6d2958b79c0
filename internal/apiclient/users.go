package apiclient

import (
	"context"

	"github.com/kazz187/novapm/internal/user"
)

func (c *Client) Developers(ctx context.Context, token string) ([]user.User, error) {
	return list[user.User](ctx, c, call{
		endpoint: "/users/developers/",
		path:     "/users/developers/",
		token:    token,
		fallback: LoadFailedMessage,
	})
}

func (c *Client) QAs(ctx context.Context, token string) ([]user.User, error) {
	return list[user.User](ctx, c, call{
		endpoint: "/users/qas/",
		path:     "/users/qas/",
		token:    token,
		fallback: LoadFailedMessage,
	})
}
