package bug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kazz187/novapm/internal/filter"
	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/internal/user"
	"github.com/kazz187/novapm/pkg/color"
)

// Status covers both vocabularies the API has used for bugs:
// NEW/IN_PROGRESS/RESOLVED/CLOSED and NEW/TRIAGED/IN_FIX/READY_TO_TEST/CLOSED.
type Status string

const (
	StatusNew         Status = "NEW"
	StatusTriaged     Status = "TRIAGED"
	StatusInFix       Status = "IN_FIX"
	StatusReadyToTest Status = "READY_TO_TEST"
	StatusClosed      Status = "CLOSED"

	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
)

// Statuses is the QA workflow, used for filter options.
var Statuses = []Status{StatusNew, StatusTriaged, StatusInFix, StatusReadyToTest, StatusClosed}

// Phase folds the older vocabulary onto the QA workflow so that both compare
// equal where they mean the same step.
func (s Status) Phase() Status {
	switch s {
	case StatusInProgress:
		return StatusInFix
	case StatusResolved:
		return StatusReadyToTest
	}
	return s
}

func (s Status) Open() bool {
	return s.Phase() != StatusClosed
}

func (s Status) Label() string {
	switch s.Phase() {
	case StatusNew:
		return "New"
	case StatusTriaged:
		return "Triaged"
	case StatusInFix:
		return "In Fix"
	case StatusReadyToTest:
		return "Ready to Test"
	case StatusClosed:
		return "Closed"
	}
	return string(s)
}

func (s Status) Tone() color.Tone {
	switch s.Phase() {
	case StatusNew:
		return color.ToneRed
	case StatusTriaged, StatusInFix:
		return color.ToneYellow
	case StatusReadyToTest:
		return color.ToneBlue
	case StatusClosed:
		return color.ToneGreen
	}
	return color.ToneGray
}

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) Valid() bool {
	for _, v := range Severities {
		if v == s {
			return true
		}
	}
	return false
}

func (s Severity) Tone() color.Tone {
	switch s {
	case SeverityCritical:
		return color.ToneRed
	case SeverityHigh:
		return color.ToneYellow
	case SeverityMedium:
		return color.ToneBlue
	}
	return color.ToneGray
}

type Bug struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      Status      `json:"status"`
	Severity    Severity    `json:"severity"`
	Project     project.Ref `json:"project"`
	ReportedBy  *user.User  `json:"reported_by,omitempty"`
	AssignedTo  *user.User  `json:"assigned_to,omitempty"`
	CreatedAt   string      `json:"created_at"`
}

func (b Bug) AssigneeName() string {
	if b.AssignedTo == nil {
		return "Unassigned"
	}
	return b.AssignedTo.DisplayName()
}

// Open keeps the bugs that are not closed, in source order.
func Open(bugs []Bug) []Bug {
	return filter.Apply(bugs, func(b Bug) bool { return b.Status.Open() })
}

// VerificationQueueSize is how many open bugs the QA overview lists.
const VerificationQueueSize = 5

func VerificationQueue(bugs []Bug) []Bug {
	open := Open(bugs)
	if len(open) > VerificationQueueSize {
		open = open[:VerificationQueueSize]
	}
	return open
}

type Filter struct {
	Query    string
	Status   Status
	Severity Severity
}

func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || !filter.IsAll(string(f.Status)) || !filter.IsAll(string(f.Severity))
}

// Apply compares statuses by phase, so filtering on IN_FIX also keeps bugs
// the API reports as IN_PROGRESS.
func (f Filter) Apply(bugs []Bug) []Bug {
	return filter.Apply(bugs,
		filter.Equal(f.Status.Phase(), func(b Bug) Status { return b.Status.Phase() }),
		filter.Equal(f.Severity, func(b Bug) Severity { return b.Severity }),
		filter.TitleContains(f.Query, func(b Bug) string { return b.Title }),
	)
}

// Draft is the report-bug form.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Project     string   `json:"project"`
}

func NewDraft() Draft {
	return Draft{Severity: SeverityMedium}
}

// CreateRequest is the body of POST /bugs/create/.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Project     int      `json:"project"`
	AssignedTo  *int     `json:"assigned_to,omitempty"`
}

func (d Draft) Request() (CreateRequest, error) {
	projectID, err := strconv.Atoi(strings.TrimSpace(d.Project))
	if err != nil {
		return CreateRequest{}, fmt.Errorf("invalid project %q: %w", d.Project, err)
	}
	return CreateRequest{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Severity:    d.Severity,
		Project:     projectID,
	}, nil
}
