package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/kazz187/novapm/pkg/cerr"
)

var (
	app = kingpin.New("novapm", "Command line client for the Nova PM project API")

	projectsCmd = app.Command("projects", "Project commands")

	projectsListCmd    = projectsCmd.Command("list", "List projects")
	projectsListScope  = projectsListCmd.Flag("scope", "Whose projects to list").Default("pm").Enum("pm", "dev", "qa")
	projectsListStatus = projectsListCmd.Flag("status", "Filter by status").Default("All").String()
	projectsListQuery  = projectsListCmd.Flag("q", "Search titles").String()

	projectsCreateCmd         = projectsCmd.Command("create", "Create a project")
	projectsCreateTitle       = projectsCreateCmd.Arg("title", "Project title").Required().String()
	projectsCreateDescription = projectsCreateCmd.Flag("description", "Project description").String()
	projectsCreateStatus      = projectsCreateCmd.Flag("status", "Initial status").Default("Active").Enum("Active", "On Hold", "Completed")
	projectsCreateDue         = projectsCreateCmd.Flag("due", "Due date (YYYY-MM-DD)").String()

	projectsAssignCmd    = projectsCmd.Command("assign", "Toggle developers and QAs on a project")
	projectsAssignID     = projectsAssignCmd.Arg("id", "Project ID").Required().Int()
	projectsAssignDevs   = projectsAssignCmd.Flag("dev", "Developer ID to toggle (repeatable)").Ints()
	projectsAssignQAs    = projectsAssignCmd.Flag("qa", "QA ID to toggle (repeatable)").Ints()
	projectsAssignDryRun = projectsAssignCmd.Flag("dry-run", "Print the membership change without sending it").Bool()

	tasksCmd = app.Command("tasks", "Task commands")

	tasksListCmd    = tasksCmd.Command("list", "List tasks")
	tasksListStatus = tasksListCmd.Flag("status", "Filter by status").Default("All").String()
	tasksListQuery  = tasksListCmd.Flag("q", "Search titles").String()

	tasksCreateCmd         = tasksCmd.Command("create", "Create a task")
	tasksCreateTitle       = tasksCreateCmd.Arg("title", "Task title").Required().String()
	tasksCreateProject     = tasksCreateCmd.Flag("project", "Project ID").Required().String()
	tasksCreateAssignee    = tasksCreateCmd.Flag("assignee", "Assignee user ID").String()
	tasksCreateDescription = tasksCreateCmd.Flag("description", "Task description").String()
	tasksCreatePriority    = tasksCreateCmd.Flag("priority", "Priority").Default("MEDIUM").Enum("LOW", "MEDIUM", "HIGH", "CRITICAL")
	tasksCreateStatus      = tasksCreateCmd.Flag("status", "Status").Default("BACKLOG").Enum("BACKLOG", "IN_PROGRESS", "IN_REVIEW", "DONE")
	tasksCreateDue         = tasksCreateCmd.Flag("due", "Due date (YYYY-MM-DD)").String()

	tasksCompleteCmd = tasksCmd.Command("complete", "Mark a task complete")
	tasksCompleteID  = tasksCompleteCmd.Arg("id", "Task ID").Required().Int()

	bugsCmd = app.Command("bugs", "Bug commands")

	bugsListCmd      = bugsCmd.Command("list", "List bugs")
	bugsListScope    = bugsListCmd.Flag("scope", "Which bug list").Default("qa").Enum("qa", "pm", "dev", "reported")
	bugsListStatus   = bugsListCmd.Flag("status", "Filter by status").Default("All").String()
	bugsListSeverity = bugsListCmd.Flag("severity", "Filter by severity").Default("All").String()
	bugsListQuery    = bugsListCmd.Flag("q", "Search titles").String()

	bugsReportCmd         = bugsCmd.Command("report", "Report a bug")
	bugsReportTitle       = bugsReportCmd.Arg("title", "Bug title").Required().String()
	bugsReportProject     = bugsReportCmd.Flag("project", "Project ID").Required().String()
	bugsReportSeverity    = bugsReportCmd.Flag("severity", "Severity").Default("MEDIUM").Enum("LOW", "MEDIUM", "HIGH", "CRITICAL")
	bugsReportDescription = bugsReportCmd.Flag("description", "Bug description").String()

	teamCmd = app.Command("team", "List developers and QAs")

	loginCmd      = app.Command("login", "Obtain an access token")
	loginUsername = loginCmd.Flag("username", "Username").Required().String()
	loginPassword = loginCmd.Flag("password", "Password").Envar("NOVAPM_PASSWORD").Required().String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := &CLI{api: cfg.Client(), token: cfg.Token, out: os.Stdout}

	switch command {
	case projectsListCmd.FullCommand():
		err = cli.listProjects(ctx, *projectsListScope, *projectsListStatus, *projectsListQuery)
	case projectsCreateCmd.FullCommand():
		err = cli.createProject(ctx, *projectsCreateTitle, *projectsCreateDescription, *projectsCreateStatus, *projectsCreateDue)
	case projectsAssignCmd.FullCommand():
		err = cli.assignProject(ctx, *projectsAssignID, *projectsAssignDevs, *projectsAssignQAs, *projectsAssignDryRun)
	case tasksListCmd.FullCommand():
		err = cli.listTasks(ctx, *tasksListStatus, *tasksListQuery)
	case tasksCreateCmd.FullCommand():
		err = cli.createTask(ctx, taskFlags{
			title:       *tasksCreateTitle,
			description: *tasksCreateDescription,
			project:     *tasksCreateProject,
			assignee:    *tasksCreateAssignee,
			priority:    *tasksCreatePriority,
			status:      *tasksCreateStatus,
			due:         *tasksCreateDue,
		})
	case tasksCompleteCmd.FullCommand():
		err = cli.completeTask(ctx, *tasksCompleteID)
	case bugsListCmd.FullCommand():
		err = cli.listBugs(ctx, *bugsListScope, *bugsListStatus, *bugsListSeverity, *bugsListQuery)
	case bugsReportCmd.FullCommand():
		err = cli.reportBug(ctx, *bugsReportTitle, *bugsReportDescription, *bugsReportProject, *bugsReportSeverity)
	case teamCmd.FullCommand():
		err = cli.team(ctx)
	case loginCmd.FullCommand():
		err = cli.login(ctx, *loginUsername, *loginPassword)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cerr.Message(err, err.Error()))
		os.Exit(1)
	}
}
