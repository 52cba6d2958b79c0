package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kazz187/novapm/internal/project"
)

// ProjectScope selects whose projects a list call returns.
type ProjectScope string

const (
	ProjectsManaged ProjectScope = "pm"
	ProjectsDev     ProjectScope = "dev"
	ProjectsQA      ProjectScope = "qa"
)

func (s ProjectScope) path() string {
	return "/projects/" + string(s) + "/"
}

func (c *Client) Projects(ctx context.Context, token string, scope ProjectScope) ([]project.Project, error) {
	return list[project.Project](ctx, c, call{
		endpoint: scope.path(),
		path:     scope.path(),
		token:    token,
		fallback: LoadFailedMessage,
	})
}

func (c *Client) CreateProject(ctx context.Context, token string, req project.CreateRequest) (*project.Project, error) {
	var out project.Project
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "/projects/create/",
		path:     "/projects/create/",
		token:    token,
		body:     req,
		fallback: "Failed to create project",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignProject replaces the project's developer and QA membership.
func (c *Client) AssignProject(ctx context.Context, token string, id int, a project.Assignment) error {
	if a.Developers == nil {
		a.Developers = []int{}
	}
	if a.QAs == nil {
		a.QAs = []int{}
	}
	return c.do(ctx, call{
		method:   http.MethodPatch,
		endpoint: "/projects/{id}/assign/",
		path:     fmt.Sprintf("/projects/%d/assign/", id),
		token:    token,
		body:     a,
		fallback: "Assignment failed",
	}, nil)
}
