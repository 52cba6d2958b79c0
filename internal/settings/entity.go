package settings

import (
	"slices"
	"strings"
	"time"

	"github.com/kazz187/novapm/internal/bug"
	"github.com/kazz187/novapm/pkg/cerr"
)

type SLA string

const (
	SLA24h SLA = "24h"
	SLA48h SLA = "48h"
	SLA72h SLA = "72h"
)

var SLAs = []SLA{SLA24h, SLA48h, SLA72h}

type Cadence string

const (
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

var Cadences = []Cadence{CadenceWeekly, CadenceBiweekly, CadenceMonthly}

func (c Cadence) Label() string {
	switch c {
	case CadenceWeekly:
		return "Weekly"
	case CadenceBiweekly:
		return "Bi-weekly"
	case CadenceMonthly:
		return "Monthly"
	}
	return string(c)
}

// Workspace is the project manager's org-level configuration.
type Workspace struct {
	Revision          string    `yaml:"revision"`
	WorkspaceName     string    `yaml:"workspace_name"`
	DefaultSLA        SLA       `yaml:"default_sla"`
	NotificationRules string    `yaml:"notification_rules"`
	ReleaseCadence    Cadence   `yaml:"release_cadence"`
	UpdatedAt         time.Time `yaml:"updated_at"`
}

func DefaultWorkspace() *Workspace {
	return &Workspace{
		WorkspaceName:  "Nova PM",
		DefaultSLA:     SLA48h,
		ReleaseCadence: CadenceWeekly,
	}
}

func (w *Workspace) Validate() error {
	switch {
	case strings.TrimSpace(w.WorkspaceName) == "":
		return cerr.NewError(cerr.InvalidArgument, "Workspace name is required", nil)
	case !slices.Contains(SLAs, w.DefaultSLA):
		return cerr.NewError(cerr.InvalidArgument, "Default SLA must be 24h, 48h or 72h", nil)
	case !slices.Contains(Cadences, w.ReleaseCadence):
		return cerr.NewError(cerr.InvalidArgument, "Unknown release cadence", nil)
	}
	return nil
}

// QAPreferences are a QA engineer's personal defaults.
type QAPreferences struct {
	Revision        string       `yaml:"revision"`
	DefaultSeverity bug.Severity `yaml:"default_severity"`
	ReportFormat    string       `yaml:"report_format"`
	UpdatedAt       time.Time    `yaml:"updated_at"`
}

func DefaultQAPreferences() *QAPreferences {
	return &QAPreferences{DefaultSeverity: bug.SeverityMedium}
}

func (p *QAPreferences) Validate() error {
	if !p.DefaultSeverity.Valid() {
		return cerr.NewError(cerr.InvalidArgument, "Unknown severity", nil)
	}
	return nil
}
