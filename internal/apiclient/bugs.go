package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kazz187/novapm/internal/bug"
)

// BugScope selects which bug list to fetch.
type BugScope string

const (
	BugsQA       BugScope = "qa"
	BugsManaged  BugScope = "pm"
	BugsDev      BugScope = "dev"
	BugsReported BugScope = "reported"
)

var BugScopes = []BugScope{BugsQA, BugsManaged, BugsDev, BugsReported}

func ParseBugScope(s string) (BugScope, error) {
	for _, scope := range BugScopes {
		if string(scope) == s {
			return scope, nil
		}
	}
	return "", fmt.Errorf("unknown bug scope %q", s)
}

func (s BugScope) path() string {
	if s == BugsReported {
		return "/bugs/qa/reported/"
	}
	return "/bugs/" + string(s) + "/"
}

func (c *Client) Bugs(ctx context.Context, token string, scope BugScope) ([]bug.Bug, error) {
	return list[bug.Bug](ctx, c, call{
		endpoint: scope.path(),
		path:     scope.path(),
		token:    token,
		fallback: LoadFailedMessage,
	})
}

func (c *Client) CreateBug(ctx context.Context, token string, req bug.CreateRequest) (*bug.Bug, error) {
	var out bug.Bug
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "/bugs/create/",
		path:     "/bugs/create/",
		token:    token,
		body:     req,
		fallback: "Failed to create bug",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
