package console

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/novapm/internal/apiclient"
	"github.com/kazz187/novapm/internal/bug"
	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/internal/session"
	"github.com/kazz187/novapm/internal/testrun"
	"github.com/kazz187/novapm/internal/view"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/clog"
)

const consoleQA = "QA"

func (c *Console) qaRoutes(r chi.Router) {
	r.Get("/", c.qaOverview)
	r.Get("/bugs", c.qaBugs)
	r.Post("/bugs", c.qaReportBug)
	r.Get("/test-runs", c.qaTestRuns)
	r.Get("/projects", c.qaProjects)
	r.Get("/settings", c.qaSettings)
	r.Post("/settings", c.qaSaveSettings)
}

type qaOverviewPage struct {
	Page
	OpenBugs     int
	ReportedBugs int
	Projects     int
	Queue        []bug.Bug
	QueueEmpty   string
}

func (c *Console) qaOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	var (
		bugs     []bug.Bug
		reported []bug.Bug
		projects []project.Project
	)
	loader := view.NewLoader(
		view.Bind(&bugs, func(ctx context.Context) ([]bug.Bug, error) { return c.api.Bugs(ctx, token, apiclient.BugsQA) }),
		view.Bind(&reported, func(ctx context.Context) ([]bug.Bug, error) {
			return c.api.Bugs(ctx, token, apiclient.BugsReported)
		}),
		view.Bind(&projects, func(ctx context.Context) ([]project.Project, error) {
			return c.api.Projects(ctx, token, apiclient.ProjectsQA)
		}),
	)
	c.refresh(ctx, loader)

	queue := bug.VerificationQueue(bugs)
	empty := ""
	if len(queue) == 0 {
		empty = "No bugs pending verification."
	}
	c.render(w, r, http.StatusOK, "qa_overview", qaOverviewPage{
		Page:         c.page(r, "Overview", consoleQA, qaNav, loader),
		OpenBugs:     len(bug.Open(bugs)),
		ReportedBugs: len(reported),
		Projects:     len(projects),
		Queue:        queue,
		QueueEmpty:   empty,
	})
}

type bugRow struct {
	bug.Bug
	ProjectLabel string
}

type bugsPage struct {
	Page
	Filter     bug.Filter
	Statuses   []bug.Status
	Severities []bug.Severity
	Rows       []bugRow
	Empty      string
	Projects   []project.Project
	// Form is nil on consoles that cannot report bugs.
	Form *view.Form[bug.Draft]
}

func bugFilter(r *http.Request) bug.Filter {
	q := r.URL.Query()
	return bug.Filter{
		Query:    q.Get("q"),
		Status:   bug.Status(q.Get("status")),
		Severity: bug.Severity(q.Get("severity")),
	}
}

func bugRows(bugs []bug.Bug, projects []project.Project) []bugRow {
	rows := make([]bugRow, 0, len(bugs))
	for _, b := range bugs {
		rows = append(rows, bugRow{Bug: b, ProjectLabel: b.Project.Resolve(projects).Label()})
	}
	return rows
}

func (c *Console) newBugForm(r *http.Request) *view.Form[bug.Draft] {
	return view.NewForm(c.bugDefaults(r), "Failed to create bug")
}

func (c *Console) qaBugs(w http.ResponseWriter, r *http.Request) {
	form := c.newBugForm(r)
	if r.URL.Query().Get("modal") == "create" {
		form.Show()
	}
	c.renderQABugs(w, r, http.StatusOK, form)
}

func (c *Console) renderQABugs(w http.ResponseWriter, r *http.Request, status int, form *view.Form[bug.Draft]) {
	ctx := r.Context()
	token := session.Token(ctx)
	var (
		bugs     []bug.Bug
		projects []project.Project
	)
	loader := view.NewLoader(
		view.Bind(&bugs, func(ctx context.Context) ([]bug.Bug, error) { return c.api.Bugs(ctx, token, apiclient.BugsQA) }),
		view.Bind(&projects, func(ctx context.Context) ([]project.Project, error) {
			return c.api.Projects(ctx, token, apiclient.ProjectsQA)
		}),
	)
	c.refresh(ctx, loader)

	f := bugFilter(r)
	filtered := f.Apply(bugs)
	page := c.page(r, "Bugs", consoleQA, qaNav, loader)
	page.Alert = form.Err
	c.render(w, r, status, "bugs", bugsPage{
		Page:       page,
		Filter:     f,
		Statuses:   bug.Statuses,
		Severities: bug.Severities,
		Rows:       bugRows(filtered, projects),
		Empty:      view.EmptyState(len(bugs), len(filtered), "bugs"),
		Projects:   projects,
		Form:       form,
	})
}

func (c *Console) qaReportBug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	form := c.newBugForm(r)
	form.Show()
	if err := r.ParseForm(); err != nil {
		form.Fail(cerr.NewError(cerr.InvalidArgument, "Invalid form", err))
		c.renderQABugs(w, r, http.StatusBadRequest, form)
		return
	}
	form.Draft = bug.Draft{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Severity:    bug.Severity(r.PostFormValue("severity")),
		Project:     r.PostFormValue("project"),
	}
	err := form.Submit(ctx,
		func(ctx context.Context, d bug.Draft) error {
			req, err := d.Request()
			if err != nil {
				return cerr.NewError(cerr.InvalidArgument, "Select a project", err)
			}
			_, err = c.api.CreateBug(ctx, token, req)
			return err
		},
		redirect(w, r, "/qa/bugs"),
	)
	if err != nil {
		c.logFormError(ctx, "report bug", err)
		c.renderQABugs(w, r, failureStatus(err), form)
	}
}

type testRunsPage struct {
	Page
	Runs   []*testrun.TestRun
	Source testrun.Source
	Empty  string
}

const sampleNotice = "Showing sample data: the API has no test runs for this workspace."

func (c *Console) qaTestRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := c.page(r, "Test Runs", consoleQA, qaNav, nil)
	data := testRunsPage{Runs: []*testrun.TestRun{}}

	listing, err := c.testRuns.List(ctx, session.Token(ctx))
	if err != nil {
		clog.AddError(ctx, err)
		page.Error = cerr.Message(err, view.LoadFailedMessage)
	} else {
		data.Runs = listing.Runs
		data.Source = listing.Source
		if listing.HasSample() {
			page.Notice = sampleNotice
		}
	}
	if len(data.Runs) == 0 {
		data.Empty = "No test runs found."
	}
	data.Page = page
	c.render(w, r, http.StatusOK, "qa_test_runs", data)
}

type projectsPage struct {
	Page
	Filter   project.Filter
	Statuses []project.Status
	Rows     []project.Project
	Empty    string
}

func (c *Console) qaProjects(w http.ResponseWriter, r *http.Request) {
	c.renderProjects(w, r, apiclient.ProjectsQA, c.page(r, "My Projects", consoleQA, qaNav, nil))
}

// renderProjects is the read-only project list the QA and developer consoles
// share.
func (c *Console) renderProjects(w http.ResponseWriter, r *http.Request, scope apiclient.ProjectScope, page Page) {
	ctx := r.Context()
	token := session.Token(ctx)
	var projects []project.Project
	loader := view.NewLoader(view.Bind(&projects, func(ctx context.Context) ([]project.Project, error) {
		return c.api.Projects(ctx, token, scope)
	}))
	c.refresh(ctx, loader)

	f := projectFilter(r)
	rows := f.Apply(projects)
	page.Loading = loader.Loading()
	page.Error = loader.Err()
	c.render(w, r, http.StatusOK, "projects", projectsPage{
		Page:     page,
		Filter:   f,
		Statuses: project.Statuses,
		Rows:     rows,
		Empty:    view.EmptyState(len(projects), len(rows), "projects"),
	})
}
