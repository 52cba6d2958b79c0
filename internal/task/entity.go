package task

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kazz187/novapm/internal/filter"
	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/internal/user"
	"github.com/kazz187/novapm/pkg/color"
)

type Status string

const (
	StatusBacklog    Status = "BACKLOG"
	StatusInProgress Status = "IN_PROGRESS"
	StatusInReview   Status = "IN_REVIEW"
	StatusDone       Status = "DONE"
)

var Statuses = []Status{StatusBacklog, StatusInProgress, StatusInReview, StatusDone}

func (s Status) Label() string {
	switch s {
	case StatusBacklog:
		return "Backlog"
	case StatusInProgress:
		return "In Progress"
	case StatusInReview:
		return "In Review"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

func (s Status) Tone() color.Tone {
	switch s {
	case StatusInProgress:
		return color.ToneBlue
	case StatusInReview:
		return color.ToneYellow
	case StatusDone:
		return color.ToneGreen
	}
	return color.ToneGray
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Tone is shared with bug severities, which use the same scale.
func (p Priority) Tone() color.Tone {
	switch p {
	case PriorityCritical:
		return color.ToneRed
	case PriorityHigh:
		return color.ToneYellow
	case PriorityMedium:
		return color.ToneBlue
	}
	return color.ToneGray
}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

type Task struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      Status      `json:"status"`
	Priority    Priority    `json:"priority"`
	Project     project.Ref `json:"project"`
	Assignee    *user.User  `json:"assignee"`
	CreatedBy   *user.User  `json:"created_by,omitempty"`
	DueDate     *string     `json:"due_date"`
	CreatedAt   string      `json:"created_at,omitempty"`
}

func (t Task) AssigneeName() string {
	if t.Assignee == nil {
		return "Unassigned"
	}
	return t.Assignee.DisplayName()
}

func (t Task) Due() string {
	if t.DueDate == nil {
		return ""
	}
	return *t.DueDate
}

type Filter struct {
	Query  string
	Status Status
}

func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || !filter.IsAll(string(f.Status))
}

func (f Filter) Apply(tasks []Task) []Task {
	return filter.Apply(tasks,
		filter.Equal(f.Status, func(t Task) Status { return t.Status }),
		filter.TitleContains(f.Query, func(t Task) string { return t.Title }),
	)
}

// Draft is the create-task form. Project and assignee hold the raw select
// values; Request converts them to ids.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	Project     string   `json:"project"`
	Assignee    string   `json:"assignee"`
	DueDate     string   `json:"due_date"`
}

func NewDraft() Draft {
	return Draft{Status: StatusBacklog, Priority: PriorityMedium}
}

// CreateRequest is the body of POST /tasks/create/.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	Project     int      `json:"project"`
	Assignee    *int     `json:"assignee"`
	DueDate     *string  `json:"due_date"`
}

// Request coerces the select values to ids. An empty assignee becomes null;
// a project that isn't a number is a form error the API never sees. A blank
// or unknown priority is sent as MEDIUM.
func (d Draft) Request() (CreateRequest, error) {
	projectID, err := strconv.Atoi(strings.TrimSpace(d.Project))
	if err != nil {
		return CreateRequest{}, fmt.Errorf("invalid project %q: %w", d.Project, err)
	}
	req := CreateRequest{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		Project:     projectID,
	}
	if !req.Priority.Valid() {
		req.Priority = PriorityMedium
	}
	if a := strings.TrimSpace(d.Assignee); a != "" {
		id, err := strconv.Atoi(a)
		if err != nil {
			return CreateRequest{}, fmt.Errorf("invalid assignee %q: %w", d.Assignee, err)
		}
		req.Assignee = &id
	}
	if due := strings.TrimSpace(d.DueDate); due != "" {
		req.DueDate = &due
	}
	return req, nil
}
