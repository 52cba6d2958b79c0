package project

import (
	"strings"

	"github.com/kazz187/novapm/internal/filter"
	"github.com/kazz187/novapm/internal/user"
	"github.com/kazz187/novapm/pkg/color"
)

type Status string

const (
	StatusActive    Status = "Active"
	StatusOnHold    Status = "On Hold"
	StatusCompleted Status = "Completed"
)

var Statuses = []Status{StatusActive, StatusOnHold, StatusCompleted}

func (s Status) Tone() color.Tone {
	switch s {
	case StatusActive:
		return color.ToneGreen
	case StatusOnHold:
		return color.ToneYellow
	}
	return color.ToneGray
}

type Project struct {
	ID             int         `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"project_description"`
	Status         Status      `json:"status"`
	StartDate      string      `json:"start_date,omitempty"`
	DueDate        *string     `json:"due_date"`
	ProjectManager *user.User  `json:"project_manager,omitempty"`
	Developers     []user.User `json:"developers"`
	QAs            []user.User `json:"qas"`
}

func (p Project) Due() string {
	if p.DueDate == nil {
		return ""
	}
	return *p.DueDate
}

func (p Project) DeveloperIDs() []int { return user.IDs(p.Developers) }

func (p Project) QAIDs() []int { return user.IDs(p.QAs) }

// Ref is the {id,title} shape other entities embed.
func (p Project) Ref() Ref {
	return Ref{ID: p.ID, Title: p.Title}
}

// Find returns the project with id, if present.
func Find(projects []Project, id int) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// CountByStatus counts the projects in status s.
func CountByStatus(projects []Project, s Status) int {
	n := 0
	for _, p := range projects {
		if p.Status == s {
			n++
		}
	}
	return n
}

type Filter struct {
	Query  string
	Status Status
}

func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || !filter.IsAll(string(f.Status))
}

func (f Filter) Apply(projects []Project) []Project {
	return filter.Apply(projects,
		filter.Equal(f.Status, func(p Project) Status { return p.Status }),
		filter.TitleContains(f.Query, func(p Project) string { return p.Title }),
	)
}

// Draft is the create-project form. Member ids start empty; assignment is a
// separate flow.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"project_description"`
	Status      Status `json:"status"`
	DueDate     string `json:"due_date"`
}

func NewDraft() Draft {
	return Draft{Status: StatusActive}
}

// CreateRequest is the body of POST /projects/create/.
type CreateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"project_description"`
	Status      Status  `json:"status"`
	DueDate     *string `json:"due_date"`
	Developers  []int   `json:"developers"`
	QAs         []int   `json:"qas"`
}

// Request coerces the draft into the API body: a blank due date is sent as
// null rather than as an unparseable empty date.
func (d Draft) Request() CreateRequest {
	req := CreateRequest{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Status:      d.Status,
		Developers:  []int{},
		QAs:         []int{},
	}
	if req.Status == "" {
		req.Status = StatusActive
	}
	if due := strings.TrimSpace(d.DueDate); due != "" {
		req.DueDate = &due
	}
	return req
}

// Assignment is the body of PATCH /projects/{id}/assign/. Both lists are the
// full desired membership, not a delta.
type Assignment struct {
	Developers []int `json:"developers"`
	QAs        []int `json:"qas"`
}
