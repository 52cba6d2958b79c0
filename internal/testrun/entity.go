package testrun

import "github.com/kazz187/novapm/pkg/color"

type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) Label() string {
	switch s {
	case StatusPlanned:
		return "Planned"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

func (s Status) Tone() color.Tone {
	switch s {
	case StatusInProgress:
		return color.ToneBlue
	case StatusCompleted:
		return color.ToneGreen
	}
	return color.ToneGray
}

type TestRun struct {
	ID           int    `yaml:"id" json:"id"`
	Code         string `yaml:"code" json:"code"`
	Title        string `yaml:"title" json:"title"`
	Status       Status `yaml:"status" json:"status"`
	Coverage     int    `yaml:"coverage" json:"coverage"`
	ProjectTitle string `yaml:"project_title" json:"project_title"`
	// Sample marks catalogue rows that were seeded rather than recorded.
	Sample bool `yaml:"sample,omitempty" json:"sample,omitempty"`
}

// ClampedCoverage keeps progress bars inside 0..100 whatever the source says.
func (r TestRun) ClampedCoverage() int {
	return min(max(r.Coverage, 0), 100)
}

// SampleRuns seeds an empty catalogue.
func SampleRuns() []*TestRun {
	return []*TestRun{
		{ID: 1, Code: "TR-101", Title: "Regression — Client Onboarding", Status: StatusInProgress, Coverage: 72, ProjectTitle: "Client Onboarding Portal", Sample: true},
		{ID: 2, Code: "TR-104", Title: "Smoke — Payments Module", Status: StatusPlanned, Coverage: 0, ProjectTitle: "Payments System", Sample: true},
		{ID: 3, Code: "TR-098", Title: "Release Verification — Sprint 6", Status: StatusCompleted, Coverage: 100, ProjectTitle: "HR Management System", Sample: true},
	}
}
