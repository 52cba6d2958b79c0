package repositoryimpl

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/kazz187/novapm/internal/settings"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/storage"
)

const settingsPrefix = "settings"

var unsafeOwnerChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type YAMLRepository struct {
	storage storage.Storage
	now     func() time.Time
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s, now: time.Now}
}

func path(kind, owner string) string {
	owner = unsafeOwnerChars.ReplaceAllString(owner, "_")
	if owner == "" {
		owner = "default"
	}
	return fmt.Sprintf("%s/%s/%s.yaml", settingsPrefix, kind, owner)
}

func (r *YAMLRepository) GetWorkspace(ctx context.Context, owner string) (*settings.Workspace, error) {
	w := settings.DefaultWorkspace()
	if err := r.read(ctx, path("workspace", owner), w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *YAMLRepository) SaveWorkspace(ctx context.Context, owner string, w *settings.Workspace) error {
	if err := w.Validate(); err != nil {
		return err
	}
	w.Revision = ulid.Make().String()
	w.UpdatedAt = r.now().UTC()
	return r.write(ctx, path("workspace", owner), w)
}

func (r *YAMLRepository) GetQAPreferences(ctx context.Context, owner string) (*settings.QAPreferences, error) {
	p := settings.DefaultQAPreferences()
	if err := r.read(ctx, path("qa", owner), p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *YAMLRepository) SaveQAPreferences(ctx context.Context, owner string, p *settings.QAPreferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Revision = ulid.Make().String()
	p.UpdatedAt = r.now().UTC()
	return r.write(ctx, path("qa", owner), p)
}

// read decodes onto out, which already holds the defaults, so a missing
// document leaves the defaults in place.
func (r *YAMLRepository) read(ctx context.Context, p string, out any) error {
	data, err := r.storage.Read(ctx, p)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return cerr.WrapStorageReadError("settings", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal settings: %w", err))
	}
	return nil
}

func (r *YAMLRepository) write(ctx context.Context, p string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal settings: %w", err))
	}
	if err := r.storage.Write(ctx, p, data); err != nil {
		return cerr.WrapStorageWriteError("settings", err)
	}
	return nil
}
