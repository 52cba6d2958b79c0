package console

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kazz187/novapm/internal/user"
	"github.com/kazz187/novapm/internal/view"
	"github.com/kazz187/novapm/pkg/color"
	"github.com/kazz187/novapm/pkg/metrics"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

const (
	layoutFile = "layout.html"

	// reloadDebounce lets editors that write in several steps settle before
	// the set is reparsed.
	reloadDebounce = 100 * time.Millisecond
)

var funcs = template.FuncMap{
	"date":     view.FormatDate,
	"clamp":    view.ClampText,
	"badge":    badgeClass,
	"names":    user.Names,
	"contains": slices.Contains[[]int, int],
}

func badgeClass(t color.Tone) string {
	return "badge badge-" + string(t)
}

// Templates is the parsed page set. Each page is parsed together with the
// layout; a reload swaps the whole set at once.
type Templates struct {
	fsys  fs.FS
	dir   string
	pages atomic.Pointer[map[string]*template.Template]
}

// LoadTemplates parses the embedded pages, or the pages under dir when dir
// is set.
func LoadTemplates(dir string) (*Templates, error) {
	t := &Templates{dir: dir}
	if dir == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded templates: %w", err)
		}
		t.fsys = sub
	} else {
		t.fsys = os.DirFS(dir)
	}
	if err := t.parse(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Templates) parse() error {
	names, err := fs.Glob(t.fsys, "*.html")
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	layout, err := template.New(layoutFile).Funcs(funcs).ParseFS(t.fsys, layoutFile)
	if err != nil {
		return fmt.Errorf("failed to parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		clone, err := layout.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		page, err := clone.ParseFS(t.fsys, name)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, path.Ext(name))] = page
	}
	t.pages.Store(&pages)
	return nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (t *Templates) Render(w http.ResponseWriter, status int, page string, data any) error {
	pages := *t.pages.Load()
	tmpl, ok := pages[page]
	if !ok {
		metrics.RecordPageRender(page, "missing")
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutFile, data); err != nil {
		metrics.RecordPageRender(page, "error")
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
	metrics.RecordPageRender(page, "ok")
	return nil
}

// Watch reparses the set whenever a file in the template directory changes.
// It returns when ctx is done. Embedded templates never change, so Watch is
// a no-op for them.
func (t *Templates) Watch(ctx context.Context) error {
	if t.dir == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(t.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", t.dir, err)
	}
	slog.InfoContext(ctx, "watching templates", "dir", t.dir)

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".html") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				if err := t.parse(); err != nil {
					// Keep serving the last good set.
					slog.ErrorContext(ctx, "template reload failed", "error", err)
					return
				}
				slog.InfoContext(ctx, "templates reloaded")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "template watcher error", "error", err)
		}
	}
}
