package console

import (
	"net/http"

	"github.com/kazz187/novapm/internal/bug"
	"github.com/kazz187/novapm/internal/session"
	"github.com/kazz187/novapm/internal/settings"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/clog"
)

var reportFormats = []string{"PDF", "CSV", "Markdown"}

type pmSettingsPage struct {
	Page
	Workspace *settings.Workspace
	SLAs      []settings.SLA
	Cadences  []settings.Cadence
}

func (c *Console) pmSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := c.page(r, "Settings", consolePM, pmNav, nil)
	ws, err := c.settings.GetWorkspace(ctx, session.FromContext(ctx).Owner())
	if err != nil {
		clog.AddError(ctx, err)
		page.Error = cerr.Message(err, "Failed to load settings")
		ws = settings.DefaultWorkspace()
	}
	if r.URL.Query().Get("saved") != "" {
		page.Notice = "Settings saved."
	}
	c.renderPMSettings(w, r, http.StatusOK, page, ws)
}

func (c *Console) renderPMSettings(w http.ResponseWriter, r *http.Request, status int, page Page, ws *settings.Workspace) {
	c.render(w, r, status, "pm_settings", pmSettingsPage{
		Page:      page,
		Workspace: ws,
		SLAs:      settings.SLAs,
		Cadences:  settings.Cadences,
	})
}

func (c *Console) pmSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := c.page(r, "Settings", consolePM, pmNav, nil)
	if err := r.ParseForm(); err != nil {
		page.Alert = "Invalid form"
		c.renderPMSettings(w, r, http.StatusBadRequest, page, settings.DefaultWorkspace())
		return
	}
	ws := &settings.Workspace{
		WorkspaceName:     r.PostFormValue("workspace_name"),
		DefaultSLA:        settings.SLA(r.PostFormValue("default_sla")),
		NotificationRules: r.PostFormValue("notification_rules"),
		ReleaseCadence:    settings.Cadence(r.PostFormValue("release_cadence")),
	}
	if err := c.settings.SaveWorkspace(ctx, session.FromContext(ctx).Owner(), ws); err != nil {
		c.logFormError(ctx, "save workspace settings", err)
		page.Alert = cerr.Message(err, "Failed to save settings")
		c.renderPMSettings(w, r, failureStatus(err), page, ws)
		return
	}
	http.Redirect(w, r, "/pm/settings?saved=1", http.StatusSeeOther)
}

type qaSettingsPage struct {
	Page
	Preferences *settings.QAPreferences
	Severities  []bug.Severity
	Formats     []string
}

func (c *Console) qaSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := c.page(r, "Settings", consoleQA, qaNav, nil)
	prefs, err := c.settings.GetQAPreferences(ctx, session.FromContext(ctx).Owner())
	if err != nil {
		clog.AddError(ctx, err)
		page.Error = cerr.Message(err, "Failed to load settings")
		prefs = settings.DefaultQAPreferences()
	}
	if r.URL.Query().Get("saved") != "" {
		page.Notice = "Settings saved."
	}
	c.renderQASettings(w, r, http.StatusOK, page, prefs)
}

func (c *Console) renderQASettings(w http.ResponseWriter, r *http.Request, status int, page Page, prefs *settings.QAPreferences) {
	c.render(w, r, status, "qa_settings", qaSettingsPage{
		Page:        page,
		Preferences: prefs,
		Severities:  bug.Severities,
		Formats:     reportFormats,
	})
}

func (c *Console) qaSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := c.page(r, "Settings", consoleQA, qaNav, nil)
	if err := r.ParseForm(); err != nil {
		page.Alert = "Invalid form"
		c.renderQASettings(w, r, http.StatusBadRequest, page, settings.DefaultQAPreferences())
		return
	}
	prefs := &settings.QAPreferences{
		DefaultSeverity: bug.Severity(r.PostFormValue("default_severity")),
		ReportFormat:    r.PostFormValue("report_format"),
	}
	if err := c.settings.SaveQAPreferences(ctx, session.FromContext(ctx).Owner(), prefs); err != nil {
		c.logFormError(ctx, "save qa preferences", err)
		page.Alert = cerr.Message(err, "Failed to save settings")
		c.renderQASettings(w, r, failureStatus(err), page, prefs)
		return
	}
	http.Redirect(w, r, "/qa/settings?saved=1", http.StatusSeeOther)
}

// bugDefaults seeds the report form from the QA's saved default severity.
func (c *Console) bugDefaults(r *http.Request) func() bug.Draft {
	ctx := r.Context()
	severity := bug.SeverityMedium
	if prefs, err := c.settings.GetQAPreferences(ctx, session.FromContext(ctx).Owner()); err == nil && prefs.DefaultSeverity.Valid() {
		severity = prefs.DefaultSeverity
	}
	return func() bug.Draft {
		d := bug.NewDraft()
		d.Severity = severity
		return d
	}
}
