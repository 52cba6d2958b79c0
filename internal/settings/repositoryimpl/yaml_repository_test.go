package repositoryimpl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/novapm/internal/bug"
	"github.com/kazz187/novapm/internal/settings"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/storage"
)

func newRepo(t *testing.T) *YAMLRepository {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewYAMLRepository(s)
	repo.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return repo
}

func TestWorkspaceDefaultsThenSave(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	w, err := repo.GetWorkspace(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "Nova PM", w.WorkspaceName)
	assert.Equal(t, settings.SLA48h, w.DefaultSLA)
	assert.Equal(t, settings.CadenceWeekly, w.ReleaseCadence)
	assert.Empty(t, w.Revision)

	w.WorkspaceName = "Nova Delivery"
	w.DefaultSLA = settings.SLA24h
	w.NotificationRules = "Notify on High/Critical only"
	require.NoError(t, repo.SaveWorkspace(ctx, "9", w))

	got, err := repo.GetWorkspace(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "Nova Delivery", got.WorkspaceName)
	assert.Equal(t, settings.SLA24h, got.DefaultSLA)
	assert.Equal(t, "Notify on High/Critical only", got.NotificationRules)
	assert.NotEmpty(t, got.Revision)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got.UpdatedAt)

	other, err := repo.GetWorkspace(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, "Nova PM", other.WorkspaceName)
}

func TestSaveWorkspaceValidates(t *testing.T) {
	repo := newRepo(t)
	w := settings.DefaultWorkspace()
	w.DefaultSLA = "12h"
	err := repo.SaveWorkspace(context.Background(), "9", w)
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
}

func TestQAPreferences(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	p, err := repo.GetQAPreferences(ctx, "../5")
	require.NoError(t, err)
	assert.Equal(t, bug.SeverityMedium, p.DefaultSeverity)

	p.DefaultSeverity = bug.SeverityHigh
	p.ReportFormat = "CSV"
	require.NoError(t, repo.SaveQAPreferences(ctx, "../5", p))

	got, err := repo.GetQAPreferences(ctx, "../5")
	require.NoError(t, err)
	assert.Equal(t, bug.SeverityHigh, got.DefaultSeverity)
	assert.Equal(t, "CSV", got.ReportFormat)

	p.DefaultSeverity = "URGENT"
	assert.Error(t, repo.SaveQAPreferences(ctx, "5", p))
}
