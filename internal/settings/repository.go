package settings

import "context"

// Repository stores settings per owner. Get returns the defaults when the
// owner has never saved.
type Repository interface {
	GetWorkspace(ctx context.Context, owner string) (*Workspace, error)
	SaveWorkspace(ctx context.Context, owner string, w *Workspace) error
	GetQAPreferences(ctx context.Context, owner string) (*QAPreferences, error)
	SaveQAPreferences(ctx context.Context, owner string, p *QAPreferences) error
}
