package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kazz187/novapm/internal/apiclient"
	"github.com/kazz187/novapm/internal/bug"
	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/internal/task"
	"github.com/kazz187/novapm/internal/user"
	"github.com/kazz187/novapm/internal/view"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/color"
)

type CLI struct {
	api   *apiclient.Client
	token string
	out   io.Writer
}

func (c *CLI) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

// badge is one colored cell. Escape codes differ in length between tones,
// so colored cells go after the last tab where tabwriter does not measure
// them, padded here on their plain text.
type badge struct {
	tone  color.Tone
	text  string
	width int
}

func badges(cells ...badge) string {
	parts := make([]string, 0, len(cells))
	for i, b := range cells {
		text := b.text
		if i < len(cells)-1 {
			text = fmt.Sprintf("%-*s", b.width, text)
		}
		parts = append(parts, color.Badge(b.tone, text))
	}
	return strings.Join(parts, "  ")
}

func cellWidth[T ~string](header string, values []T) int {
	width := len(header)
	for _, v := range values {
		width = max(width, len(v))
	}
	return width
}

func (c *CLI) listProjects(ctx context.Context, scope, status, query string) error {
	projects, err := c.api.Projects(ctx, c.token, apiclient.ProjectScope(scope))
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	f := project.Filter{Query: query, Status: project.Status(status)}
	rows := f.Apply(projects)
	if len(rows) == 0 {
		fmt.Fprintln(c.out, view.EmptyState(len(projects), 0, "projects"))
		return nil
	}
	w := c.table()
	fmt.Fprintln(w, "ID\tTITLE\tDUE\tDEVS\tQAS\tSTATUS")
	for _, p := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n",
			p.ID, view.ClampText(p.Title, 40), view.FormatDate(p.Due()), len(p.Developers), len(p.QAs),
			color.Badge(p.Status.Tone(), string(p.Status)))
	}
	return w.Flush()
}

func (c *CLI) createProject(ctx context.Context, title, description, status, due string) error {
	d := project.NewDraft()
	d.Title = title
	d.Description = description
	d.Status = project.Status(status)
	d.DueDate = due
	p, err := c.api.CreateProject(ctx, c.token, d.Request())
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	fmt.Fprintf(c.out, "Created project %d %q\n", p.ID, p.Title)
	return nil
}

// assignProject toggles each given id on the project's current membership.
func (c *CLI) assignProject(ctx context.Context, id int, devs, qas []int, dryRun bool) error {
	projects, err := c.api.Projects(ctx, c.token, apiclient.ProjectsManaged)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	p, ok := project.Find(projects, id)
	if !ok {
		return cerr.NewError(cerr.NotFound, fmt.Sprintf("Project %d not found", id), nil)
	}

	draft := view.SeedAssignment(p)
	for _, d := range devs {
		draft.Developers = view.ToggleID(draft.Developers, d)
	}
	for _, q := range qas {
		draft.QAs = view.ToggleID(draft.QAs, q)
	}

	if dryRun {
		diff, err := membershipDiff(p.Title, view.SeedAssignment(p), draft)
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Fprintln(c.out, "No membership change.")
			return nil
		}
		_, err = io.WriteString(c.out, diff)
		return err
	}

	if err := c.api.AssignProject(ctx, c.token, id, draft.Assignment()); err != nil {
		return fmt.Errorf("failed to assign project %d: %w", id, err)
	}
	fmt.Fprintf(c.out, "Updated %s: %d developers, %d QAs\n", p.Title, len(draft.Developers), len(draft.QAs))
	return nil
}

func membershipLines(d view.AssignDraft) []string {
	lines := make([]string, 0, len(d.Developers)+len(d.QAs))
	for _, id := range d.Developers {
		lines = append(lines, fmt.Sprintf("developer %d\n", id))
	}
	for _, id := range d.QAs {
		lines = append(lines, fmt.Sprintf("qa %d\n", id))
	}
	return lines
}

// membershipDiff renders before/after as a unified diff, "" when equal.
func membershipDiff(title string, before, after view.AssignDraft) (string, error) {
	a, b := membershipLines(before), membershipLines(after)
	if slices.Equal(a, b) {
		return "", nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: title + " (current)",
		ToFile:   title + " (proposed)",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to diff membership: %w", err)
	}
	return diff, nil
}

func (c *CLI) listTasks(ctx context.Context, status, query string) error {
	tasks, err := c.api.Tasks(ctx, c.token)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	f := task.Filter{Query: query, Status: task.Status(status)}
	rows := f.Apply(tasks)
	if len(rows) == 0 {
		fmt.Fprintln(c.out, view.EmptyState(len(tasks), 0, "tasks"))
		return nil
	}
	priorityWidth := cellWidth("PRIORITY", task.Priorities)
	w := c.table()
	fmt.Fprintf(w, "ID\tTITLE\tPROJECT\tASSIGNEE\tDUE\t%-*s  STATUS\n", priorityWidth, "PRIORITY")
	for _, t := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, view.ClampText(t.Title, 40), t.Project.Label(), t.AssigneeName(), view.FormatDate(t.Due()),
			badges(
				badge{t.Priority.Tone(), string(t.Priority), priorityWidth},
				badge{t.Status.Tone(), t.Status.Label(), 0},
			))
	}
	return w.Flush()
}

type taskFlags struct {
	title, description, project, assignee, priority, status, due string
}

func (c *CLI) createTask(ctx context.Context, f taskFlags) error {
	d := task.NewDraft()
	d.Title = f.title
	d.Description = f.description
	d.Project = f.project
	d.Assignee = f.assignee
	d.Priority = task.Priority(f.priority)
	d.Status = task.Status(f.status)
	d.DueDate = f.due
	req, err := d.Request()
	if err != nil {
		return cerr.NewError(cerr.InvalidArgument, "Project and assignee must be numeric IDs", err)
	}
	t, err := c.api.CreateTask(ctx, c.token, req)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	fmt.Fprintf(c.out, "Created task %d %q\n", t.ID, t.Title)
	return nil
}

func (c *CLI) completeTask(ctx context.Context, id int) error {
	msg, err := c.api.CompleteTask(ctx, c.token, id)
	if err != nil {
		return fmt.Errorf("failed to complete task %d: %w", id, err)
	}
	if msg == "" {
		msg = fmt.Sprintf("Task %d marked as completed", id)
	}
	fmt.Fprintln(c.out, msg)
	return nil
}

func (c *CLI) listBugs(ctx context.Context, scope, status, severity, query string) error {
	s, err := apiclient.ParseBugScope(scope)
	if err != nil {
		return cerr.NewError(cerr.InvalidArgument, err.Error(), err)
	}
	bugs, err := c.api.Bugs(ctx, c.token, s)
	if err != nil {
		return fmt.Errorf("failed to list bugs: %w", err)
	}
	f := bug.Filter{Query: query, Status: bug.Status(status), Severity: bug.Severity(severity)}
	rows := f.Apply(bugs)
	if len(rows) == 0 {
		fmt.Fprintln(c.out, view.EmptyState(len(bugs), 0, "bugs"))
		return nil
	}
	severityWidth := cellWidth("SEVERITY", bug.Severities)
	w := c.table()
	fmt.Fprintf(w, "ID\tTITLE\tPROJECT\tASSIGNEE\t%-*s  STATUS\n", severityWidth, "SEVERITY")
	for _, b := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			b.ID, view.ClampText(b.Title, 40), b.Project.Label(), b.AssigneeName(),
			badges(
				badge{b.Severity.Tone(), string(b.Severity), severityWidth},
				badge{b.Status.Tone(), b.Status.Label(), 0},
			))
	}
	return w.Flush()
}

func (c *CLI) reportBug(ctx context.Context, title, description, projectID, severity string) error {
	d := bug.NewDraft()
	d.Title = title
	d.Description = description
	d.Project = projectID
	d.Severity = bug.Severity(severity)
	req, err := d.Request()
	if err != nil {
		return cerr.NewError(cerr.InvalidArgument, "Project must be a numeric ID", err)
	}
	b, err := c.api.CreateBug(ctx, c.token, req)
	if err != nil {
		return fmt.Errorf("failed to report bug: %w", err)
	}
	fmt.Fprintf(c.out, "Reported bug %d %q\n", b.ID, b.Title)
	return nil
}

func (c *CLI) team(ctx context.Context) error {
	var devs, qas []user.User
	loader := view.NewLoader(
		view.Bind(&devs, func(ctx context.Context) ([]user.User, error) { return c.api.Developers(ctx, c.token) }),
		view.Bind(&qas, func(ctx context.Context) ([]user.User, error) { return c.api.QAs(ctx, c.token) }),
	)
	if err := loader.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}
	members := user.Team(devs, qas)
	if len(members) == 0 {
		fmt.Fprintln(c.out, "No team members found.")
		return nil
	}
	w := c.table()
	fmt.Fprintln(w, "ID\tNAME\tUSERNAME\tEMAIL\tROLE")
	for _, m := range members {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.DisplayName(), m.Username, m.Email, m.RoleLabel)
	}
	return w.Flush()
}

func (c *CLI) login(ctx context.Context, username, password string) error {
	tokens, err := c.api.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	me, err := c.api.Me(ctx, tokens.Access)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	fmt.Fprintf(c.out, "Signed in as %s (%s)\n", me.DisplayName(), me.Role.Label())
	fmt.Fprintf(c.out, "export %s_TOKEN=%s\n", envPrefix, tokens.Access)
	return nil
}
