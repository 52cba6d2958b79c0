// Package console serves the role consoles as server-rendered pages. Every
// page fetches its lists from the API on each request; nothing is cached
// between requests.
package console

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/novapm/internal/apiclient"
	"github.com/kazz187/novapm/internal/session"
	"github.com/kazz187/novapm/internal/settings"
	"github.com/kazz187/novapm/internal/testrun"
	"github.com/kazz187/novapm/internal/view"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/clog"
)

type Console struct {
	api       *apiclient.Client
	sessions  *session.Manager
	settings  settings.Repository
	testRuns  *testrun.Service
	templates *Templates
}

func New(api *apiclient.Client, sessions *session.Manager, settingsRepo settings.Repository, testRuns *testrun.Service, templates *Templates) *Console {
	return &Console{
		api:       api,
		sessions:  sessions,
		settings:  settingsRepo,
		testRuns:  testRuns,
		templates: templates,
	}
}

// Routes mounts the pages, the auth forms and the JSON surface.
func (c *Console) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", c.home)
	r.Route("/auth", c.authRoutes)

	r.Group(func(r chi.Router) {
		r.Use(c.sessions.Require(http.HandlerFunc(c.unauthorized)))
		r.Route("/pm", c.pmRoutes)
		r.Route("/qa", c.qaRoutes)
		r.Route("/dev", c.devRoutes)
	})

	r.Route("/api", c.apiRoutes)
	return r
}

type NavItem struct {
	Label string
	Href  string
}

var (
	pmNav = []NavItem{
		{"Overview", "/pm"},
		{"Projects", "/pm/projects"},
		{"Tasks", "/pm/tasks"},
		{"Assignments", "/pm/assignments"},
		{"Team", "/pm/team"},
		{"Settings", "/pm/settings"},
	}
	qaNav = []NavItem{
		{"Overview", "/qa"},
		{"Bugs", "/qa/bugs"},
		{"Test Runs", "/qa/test-runs"},
		{"My Projects", "/qa/projects"},
		{"Settings", "/qa/settings"},
	}
	devNav = []NavItem{
		{"Overview", "/dev"},
		{"Projects", "/dev/projects"},
		{"Bugs", "/dev/bugs"},
	}
)

// Page is the part of every page's data the layout reads.
type Page struct {
	Title   string
	Console string
	Nav     []NavItem
	Current string
	Loading bool
	// Error is the inline list error; Alert is the blocking banner over an
	// open modal.
	Error  string
	Alert  string
	Notice string
}

func (c *Console) page(r *http.Request, title, console string, nav []NavItem, loader *view.Loader) Page {
	p := Page{
		Title:   title,
		Console: console,
		Nav:     nav,
		Current: r.URL.Path,
	}
	if loader != nil {
		p.Loading = loader.Loading()
		p.Error = loader.Err()
	}
	return p
}

// refresh runs the page's fetches. A failure is already on the loader for
// the page to show; it is only logged here.
func (c *Console) refresh(ctx context.Context, loader *view.Loader) {
	err := loader.Refresh(ctx)
	if err == nil || errors.Is(err, view.ErrSuperseded) {
		return
	}
	clog.AddError(ctx, err)
	slog.WarnContext(ctx, "page data load failed", "error", err)
}

func (c *Console) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := c.templates.Render(w, status, page, data); err != nil {
		clog.AddError(r.Context(), err)
		slog.ErrorContext(r.Context(), "render failed", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// redirect is the success path of every form: the 303 sends the browser back
// to the list, whose GET is the single re-fetch.
func redirect(w http.ResponseWriter, r *http.Request, target string) func(context.Context) error {
	return func(context.Context) error {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return nil
	}
}

// failureStatus is the status a form re-render goes out with.
func failureStatus(err error) int {
	code := cerr.CodeOf(err)
	if code == cerr.Unknown {
		return http.StatusInternalServerError
	}
	return code.HTTPCode()
}

func (c *Console) logFormError(ctx context.Context, action string, err error) {
	clog.AddError(ctx, err)
	slog.WarnContext(ctx, action+" failed", "error", err)
}

func (c *Console) unauthorized(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusUnauthorized, "unauthorized", Page{Title: "Unauthorized"})
}

// home sends a signed-in user to their role's console and everyone else to
// the login form.
func (c *Console) home(w http.ResponseWriter, r *http.Request) {
	s, ok := c.sessions.Read(r)
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	me, err := c.api.Me(r.Context(), s.Token)
	if err != nil {
		clog.AddError(r.Context(), err)
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, me.Role.Home(), http.StatusSeeOther)
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}
