package console

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/novapm/internal/apiclient"
	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/internal/session"
	"github.com/kazz187/novapm/internal/task"
	"github.com/kazz187/novapm/internal/user"
	"github.com/kazz187/novapm/internal/view"
	"github.com/kazz187/novapm/pkg/cerr"
)

const consolePM = "Project Manager"

func (c *Console) pmRoutes(r chi.Router) {
	r.Get("/", c.pmOverview)
	r.Get("/projects", c.pmProjects)
	r.Post("/projects", c.pmCreateProject)
	r.Get("/tasks", c.pmTasks)
	r.Post("/tasks", c.pmCreateTask)
	r.Post("/tasks/{id}/complete", c.pmCompleteTask)
	r.Get("/assignments", c.pmAssignments)
	r.Post("/assignments", c.pmAssign)
	r.Get("/team", c.pmTeam)
	r.Get("/settings", c.pmSettings)
	r.Post("/settings", c.pmSaveSettings)
}

type pmOverviewPage struct {
	Page
	ActiveProjects int
	TeamSize       string
	TotalTasks     int
	Recent         []project.Project
}

const recentProjects = 5

func (c *Console) pmOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	var (
		projects []project.Project
		devs     []user.User
		qas      []user.User
		tasks    []task.Task
	)
	loader := view.NewLoader(
		view.Bind(&projects, func(ctx context.Context) ([]project.Project, error) {
			return c.api.Projects(ctx, token, apiclient.ProjectsManaged)
		}),
		view.Bind(&devs, func(ctx context.Context) ([]user.User, error) { return c.api.Developers(ctx, token) }),
		view.Bind(&qas, func(ctx context.Context) ([]user.User, error) { return c.api.QAs(ctx, token) }),
		view.Bind(&tasks, func(ctx context.Context) ([]task.Task, error) { return c.api.Tasks(ctx, token) }),
	)
	c.refresh(ctx, loader)

	recent := projects
	if len(recent) > recentProjects {
		recent = recent[:recentProjects]
	}
	c.render(w, r, http.StatusOK, "pm_overview", pmOverviewPage{
		Page:           c.page(r, "Overview", consolePM, pmNav, loader),
		ActiveProjects: project.CountByStatus(projects, project.StatusActive),
		TeamSize:       view.TeamSize(len(devs), len(qas)),
		TotalTasks:     len(tasks),
		Recent:         recent,
	})
}

type pmProjectsPage struct {
	Page
	Filter   project.Filter
	Statuses []project.Status
	Rows     []project.Project
	Empty    string
	Form     *view.Form[project.Draft]
}

func newProjectForm() *view.Form[project.Draft] {
	return view.NewForm(project.NewDraft, "Failed to create project")
}

func projectFilter(r *http.Request) project.Filter {
	q := r.URL.Query()
	return project.Filter{Query: q.Get("q"), Status: project.Status(q.Get("status"))}
}

func (c *Console) pmProjects(w http.ResponseWriter, r *http.Request) {
	form := newProjectForm()
	if r.URL.Query().Get("modal") == "create" {
		form.Show()
	}
	c.renderPMProjects(w, r, http.StatusOK, form)
}

func (c *Console) renderPMProjects(w http.ResponseWriter, r *http.Request, status int, form *view.Form[project.Draft]) {
	ctx := r.Context()
	token := session.Token(ctx)
	var projects []project.Project
	loader := view.NewLoader(view.Bind(&projects, func(ctx context.Context) ([]project.Project, error) {
		return c.api.Projects(ctx, token, apiclient.ProjectsManaged)
	}))
	c.refresh(ctx, loader)

	f := projectFilter(r)
	rows := f.Apply(projects)
	page := c.page(r, "Projects", consolePM, pmNav, loader)
	page.Alert = form.Err
	c.render(w, r, status, "pm_projects", pmProjectsPage{
		Page:     page,
		Filter:   f,
		Statuses: project.Statuses,
		Rows:     rows,
		Empty:    view.EmptyState(len(projects), len(rows), "projects"),
		Form:     form,
	})
}

func (c *Console) pmCreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	form := newProjectForm()
	form.Show()
	if err := r.ParseForm(); err != nil {
		form.Fail(cerr.NewError(cerr.InvalidArgument, "Invalid form", err))
		c.renderPMProjects(w, r, http.StatusBadRequest, form)
		return
	}
	form.Draft = project.Draft{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("project_description"),
		Status:      project.Status(r.PostFormValue("status")),
		DueDate:     r.PostFormValue("due_date"),
	}
	err := form.Submit(ctx,
		func(ctx context.Context, d project.Draft) error {
			_, err := c.api.CreateProject(ctx, token, d.Request())
			return err
		},
		redirect(w, r, "/pm/projects"),
	)
	if err != nil {
		c.logFormError(ctx, "create project", err)
		c.renderPMProjects(w, r, failureStatus(err), form)
	}
}

// taskRow is a task with its project reference completed from the project
// list, since the task endpoint sends only the title.
type taskRow struct {
	task.Task
	ProjectLabel string
}

type pmTasksPage struct {
	Page
	Filter     task.Filter
	Statuses   []task.Status
	Priorities []task.Priority
	Rows       []taskRow
	Empty      string
	Projects   []project.Project
	Developers []user.User
	Form       *view.Form[task.Draft]
}

func newTaskForm() *view.Form[task.Draft] {
	return view.NewForm(task.NewDraft, "Failed to create task")
}

func (c *Console) pmTasks(w http.ResponseWriter, r *http.Request) {
	form := newTaskForm()
	if r.URL.Query().Get("modal") == "create" {
		form.Show()
	}
	c.renderPMTasks(w, r, http.StatusOK, form, "")
}

func (c *Console) renderPMTasks(w http.ResponseWriter, r *http.Request, status int, form *view.Form[task.Draft], alert string) {
	ctx := r.Context()
	token := session.Token(ctx)
	var (
		tasks    []task.Task
		projects []project.Project
		devs     []user.User
	)
	loader := view.NewLoader(
		view.Bind(&tasks, func(ctx context.Context) ([]task.Task, error) { return c.api.Tasks(ctx, token) }),
		view.Bind(&projects, func(ctx context.Context) ([]project.Project, error) {
			return c.api.Projects(ctx, token, apiclient.ProjectsManaged)
		}),
		view.Bind(&devs, func(ctx context.Context) ([]user.User, error) { return c.api.Developers(ctx, token) }),
	)
	c.refresh(ctx, loader)

	q := r.URL.Query()
	f := task.Filter{Query: q.Get("q"), Status: task.Status(q.Get("status"))}
	filtered := f.Apply(tasks)
	rows := make([]taskRow, 0, len(filtered))
	for _, t := range filtered {
		rows = append(rows, taskRow{Task: t, ProjectLabel: t.Project.Resolve(projects).Label()})
	}

	page := c.page(r, "Tasks", consolePM, pmNav, loader)
	page.Alert = form.Err
	if alert != "" {
		page.Alert = alert
	}
	c.render(w, r, status, "pm_tasks", pmTasksPage{
		Page:       page,
		Filter:     f,
		Statuses:   task.Statuses,
		Priorities: task.Priorities,
		Rows:       rows,
		Empty:      view.EmptyState(len(tasks), len(rows), "tasks"),
		Projects:   projects,
		Developers: devs,
		Form:       form,
	})
}

func (c *Console) pmCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	form := newTaskForm()
	form.Show()
	if err := r.ParseForm(); err != nil {
		form.Fail(cerr.NewError(cerr.InvalidArgument, "Invalid form", err))
		c.renderPMTasks(w, r, http.StatusBadRequest, form, "")
		return
	}
	form.Draft = task.Draft{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Status:      task.Status(r.PostFormValue("status")),
		Priority:    task.Priority(r.PostFormValue("priority")),
		Project:     r.PostFormValue("project"),
		Assignee:    r.PostFormValue("assignee"),
		DueDate:     r.PostFormValue("due_date"),
	}
	err := form.Submit(ctx,
		func(ctx context.Context, d task.Draft) error {
			req, err := d.Request()
			if err != nil {
				return cerr.NewError(cerr.InvalidArgument, "Select a project", err)
			}
			_, err = c.api.CreateTask(ctx, token, req)
			return err
		},
		redirect(w, r, "/pm/tasks"),
	)
	if err != nil {
		c.logFormError(ctx, "create task", err)
		c.renderPMTasks(w, r, failureStatus(err), form, "")
	}
}

func (c *Console) pmCompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		c.renderPMTasks(w, r, http.StatusBadRequest, newTaskForm(), "Unknown task")
		return
	}
	if _, err := c.api.CompleteTask(ctx, session.Token(ctx), id); err != nil {
		c.logFormError(ctx, "complete task", err)
		c.renderPMTasks(w, r, failureStatus(err), newTaskForm(), cerr.Message(err, "Failed to complete task"))
		return
	}
	http.Redirect(w, r, "/pm/tasks", http.StatusSeeOther)
}

type pmAssignmentsPage struct {
	Page
	Projects   []project.Project
	Developers []user.User
	QAs        []user.User
	Selected   project.Project
	Form       *view.Form[view.AssignDraft]
}

func newAssignForm() *view.Form[view.AssignDraft] {
	return view.NewForm(view.NewAssignDraft, "Assignment failed")
}

func (c *Console) pmAssignments(w http.ResponseWriter, r *http.Request) {
	c.renderPMAssignments(w, r, http.StatusOK, newAssignForm(), queryInt(r, "project"))
}

// renderPMAssignments opens the modal on seedID's current membership when
// the form has no project yet.
func (c *Console) renderPMAssignments(w http.ResponseWriter, r *http.Request, status int, form *view.Form[view.AssignDraft], seedID int) {
	ctx := r.Context()
	token := session.Token(ctx)
	var (
		projects []project.Project
		devs     []user.User
		qas      []user.User
	)
	loader := view.NewLoader(
		view.Bind(&projects, func(ctx context.Context) ([]project.Project, error) {
			return c.api.Projects(ctx, token, apiclient.ProjectsManaged)
		}),
		view.Bind(&devs, func(ctx context.Context) ([]user.User, error) { return c.api.Developers(ctx, token) }),
		view.Bind(&qas, func(ctx context.Context) ([]user.User, error) { return c.api.QAs(ctx, token) }),
	)
	c.refresh(ctx, loader)

	if !form.Draft.Selected() && seedID != 0 {
		if p, ok := project.Find(projects, seedID); ok {
			form.Draft = view.SeedAssignment(p)
			form.Show()
		}
	}
	selected, _ := project.Find(projects, form.Draft.ProjectID)

	page := c.page(r, "Assignments", consolePM, pmNav, loader)
	page.Alert = form.Err
	c.render(w, r, status, "pm_assignments", pmAssignmentsPage{
		Page:       page,
		Projects:   projects,
		Developers: devs,
		QAs:        qas,
		Selected:   selected,
		Form:       form,
	})
}

func formIDs(values []string) []int {
	ids := make([]int, 0, len(values))
	for _, v := range values {
		if id, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// pmAssign handles every button of the assignment modal. Toggle buttons edit
// the draft carried in hidden fields and re-render; save sends it.
func (c *Console) pmAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	form := newAssignForm()
	if err := r.ParseForm(); err != nil {
		form.Fail(cerr.NewError(cerr.InvalidArgument, "Invalid form", err))
		c.renderPMAssignments(w, r, http.StatusBadRequest, form, 0)
		return
	}
	projectID, _ := strconv.Atoi(r.PostFormValue("project"))
	form.Draft = view.AssignDraft{
		ProjectID:  projectID,
		Developers: formIDs(r.PostForm["dev"]),
		QAs:        formIDs(r.PostForm["qa"]),
	}
	form.Show()

	switch {
	case r.PostFormValue("action") == "cancel":
		http.Redirect(w, r, "/pm/assignments", http.StatusSeeOther)
		return
	case r.PostFormValue("toggle_dev") != "":
		if id, err := strconv.Atoi(r.PostFormValue("toggle_dev")); err == nil {
			form.Draft.Developers = view.ToggleID(form.Draft.Developers, id)
		}
		c.renderPMAssignments(w, r, http.StatusOK, form, 0)
		return
	case r.PostFormValue("toggle_qa") != "":
		if id, err := strconv.Atoi(r.PostFormValue("toggle_qa")); err == nil {
			form.Draft.QAs = view.ToggleID(form.Draft.QAs, id)
		}
		c.renderPMAssignments(w, r, http.StatusOK, form, 0)
		return
	}

	err := form.Submit(ctx,
		func(ctx context.Context, d view.AssignDraft) error {
			if !d.Selected() {
				return cerr.NewError(cerr.InvalidArgument, "Select a project", nil)
			}
			return c.api.AssignProject(ctx, token, d.ProjectID, d.Assignment())
		},
		redirect(w, r, "/pm/assignments"),
	)
	if err != nil {
		c.logFormError(ctx, "assign project", err)
		c.renderPMAssignments(w, r, failureStatus(err), form, 0)
	}
}

type teamPage struct {
	Page
	Members []user.Member
	Empty   string
}

func (c *Console) pmTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	var devs, qas []user.User
	loader := view.NewLoader(
		view.Bind(&devs, func(ctx context.Context) ([]user.User, error) { return c.api.Developers(ctx, token) }),
		view.Bind(&qas, func(ctx context.Context) ([]user.User, error) { return c.api.QAs(ctx, token) }),
	)
	c.refresh(ctx, loader)

	members := user.Team(devs, qas)
	empty := ""
	if len(members) == 0 {
		empty = "No team members found."
	}
	c.render(w, r, http.StatusOK, "pm_team", teamPage{
		Page:    c.page(r, "Team", consolePM, pmNav, loader),
		Members: members,
		Empty:   empty,
	})
}
