package console

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/novapm/internal/apiclient"
	"github.com/kazz187/novapm/internal/bug"
	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/internal/session"
	"github.com/kazz187/novapm/internal/view"
)

const consoleDev = "Developer"

func (c *Console) devRoutes(r chi.Router) {
	r.Get("/", c.devOverview)
	r.Get("/projects", c.devProjects)
	r.Get("/bugs", c.devBugs)
}

type devOverviewPage struct {
	Page
	Projects []project.Project
	Bugs     []bug.Bug
	OpenBugs int
}

func (c *Console) devOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	var (
		projects []project.Project
		bugs     []bug.Bug
	)
	loader := view.NewLoader(
		view.Bind(&projects, func(ctx context.Context) ([]project.Project, error) {
			return c.api.Projects(ctx, token, apiclient.ProjectsDev)
		}),
		view.Bind(&bugs, func(ctx context.Context) ([]bug.Bug, error) { return c.api.Bugs(ctx, token, apiclient.BugsDev) }),
	)
	c.refresh(ctx, loader)

	c.render(w, r, http.StatusOK, "dev_overview", devOverviewPage{
		Page:     c.page(r, "Overview", consoleDev, devNav, loader),
		Projects: projects,
		Bugs:     bugs,
		OpenBugs: len(bug.Open(bugs)),
	})
}

func (c *Console) devProjects(w http.ResponseWriter, r *http.Request) {
	c.renderProjects(w, r, apiclient.ProjectsDev, c.page(r, "Projects", consoleDev, devNav, nil))
}

func (c *Console) devBugs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	var (
		bugs     []bug.Bug
		projects []project.Project
	)
	loader := view.NewLoader(
		view.Bind(&bugs, func(ctx context.Context) ([]bug.Bug, error) { return c.api.Bugs(ctx, token, apiclient.BugsDev) }),
		view.Bind(&projects, func(ctx context.Context) ([]project.Project, error) {
			return c.api.Projects(ctx, token, apiclient.ProjectsDev)
		}),
	)
	c.refresh(ctx, loader)

	f := bugFilter(r)
	filtered := f.Apply(bugs)
	c.render(w, r, http.StatusOK, "bugs", bugsPage{
		Page:       c.page(r, "Bugs", consoleDev, devNav, loader),
		Filter:     f,
		Statuses:   bug.Statuses,
		Severities: bug.Severities,
		Rows:       bugRows(filtered, projects),
		Empty:      view.EmptyState(len(bugs), len(filtered), "bugs"),
		Projects:   projects,
	})
}
