package console

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/novapm/internal/apiclient"
	"github.com/kazz187/novapm/internal/bug"
	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/internal/session"
	"github.com/kazz187/novapm/internal/task"
	"github.com/kazz187/novapm/internal/testrun"
	"github.com/kazz187/novapm/internal/user"
	"github.com/kazz187/novapm/internal/view"
	"github.com/kazz187/novapm/pkg/cerr"
)

// apiRoutes serves the same rows the pages render, as JSON.
func (c *Console) apiRoutes(r chi.Router) {
	r.Use(cerr.NewJSONResponseChiMiddleware())
	r.Use(c.sessions.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, apiclient.MissingTokenMessage, nil)
	})))

	r.Get("/pm/projects", c.apiProjects(apiclient.ProjectsManaged))
	r.Get("/pm/tasks", c.apiTasks)
	r.Get("/pm/team", c.apiTeam)
	r.Get("/qa/projects", c.apiProjects(apiclient.ProjectsQA))
	r.Get("/qa/bugs", c.apiBugs(apiclient.BugsQA))
	r.Get("/qa/bugs/reported", c.apiBugs(apiclient.BugsReported))
	r.Get("/qa/test-runs", c.apiTestRuns)
	r.Get("/dev/projects", c.apiProjects(apiclient.ProjectsDev))
	r.Get("/dev/bugs", c.apiBugs(apiclient.BugsDev))
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// serveList fetches one list through a Loader so the JSON surface fails the
// same way the pages do, then applies the page's filter.
func serveList[T any](r *http.Request, fetch func(context.Context, string) ([]T, error), apply func([]T) []T) {
	ctx := r.Context()
	token := session.Token(ctx)
	var items []T
	loader := view.NewLoader(view.Bind(&items, func(ctx context.Context) ([]T, error) { return fetch(ctx, token) }))
	if err := loader.Refresh(ctx); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	rows := apply(items)
	cerr.SetJSONResponse(ctx, listResponse[T]{Items: rows, Total: len(items)})
}

func (c *Console) apiProjects(scope apiclient.ProjectScope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveList(r,
			func(ctx context.Context, token string) ([]project.Project, error) {
				return c.api.Projects(ctx, token, scope)
			},
			projectFilter(r).Apply,
		)
	}
}

func (c *Console) apiTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := task.Filter{Query: q.Get("q"), Status: task.Status(q.Get("status"))}
	serveList(r, c.api.Tasks, f.Apply)
}

func (c *Console) apiBugs(scope apiclient.BugScope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveList(r,
			func(ctx context.Context, token string) ([]bug.Bug, error) {
				return c.api.Bugs(ctx, token, scope)
			},
			bugFilter(r).Apply,
		)
	}
}

func (c *Console) apiTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	var devs, qas []user.User
	loader := view.NewLoader(
		view.Bind(&devs, func(ctx context.Context) ([]user.User, error) { return c.api.Developers(ctx, token) }),
		view.Bind(&qas, func(ctx context.Context) ([]user.User, error) { return c.api.QAs(ctx, token) }),
	)
	if err := loader.Refresh(ctx); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	members := user.Team(devs, qas)
	cerr.SetJSONResponse(ctx, listResponse[user.Member]{Items: members, Total: len(members)})
}

type testRunsResponse struct {
	Items  []*testrun.TestRun `json:"items"`
	Source testrun.Source     `json:"source"`
	Sample bool               `json:"sample"`
}

func (c *Console) apiTestRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listing, err := c.testRuns.List(ctx, session.Token(ctx))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, testRunsResponse{
		Items:  listing.Runs,
		Source: listing.Source,
		Sample: listing.HasSample(),
	})
}
