package repositoryimpl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/novapm/internal/testrun"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/storage"
)

func newRepo(t *testing.T) *YAMLRepository {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewYAMLRepository(s)
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	seeded, err := repo.Seed(ctx, testrun.SampleRuns())
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = repo.Seed(ctx, testrun.SampleRuns())
	require.NoError(t, err)
	assert.False(t, seeded)

	runs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "TR-101", runs[0].Code)
	assert.Equal(t, "Regression — Client Onboarding", runs[0].Title)
	assert.Equal(t, 72, runs[0].Coverage)
	assert.True(t, runs[0].Sample)
	assert.Equal(t, testrun.StatusCompleted, runs[2].Status)
}

func TestSeedKeepsStoredRuns(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.Save(ctx, &testrun.TestRun{ID: 1, Code: "TR-101", Title: "Regression (edited)", Status: testrun.StatusInProgress}))

	seeded, err := repo.Seed(ctx, testrun.SampleRuns())
	require.NoError(t, err)
	assert.True(t, seeded)

	runs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "Regression (edited)", runs[0].Title)
	assert.False(t, runs[0].Sample)
	assert.True(t, runs[1].Sample)
}

func TestSaveOverwritesByCode(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.Save(ctx, &testrun.TestRun{ID: 7, Code: "TR-200", Title: "Smoke", Status: testrun.StatusPlanned}))
	require.NoError(t, repo.Save(ctx, &testrun.TestRun{ID: 7, Code: "TR-200", Title: "Smoke", Status: testrun.StatusInProgress, Coverage: 40}))

	runs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, testrun.StatusInProgress, runs[0].Status)
	assert.False(t, runs[0].Sample)

	err = repo.Save(ctx, &testrun.TestRun{Title: "no code"})
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
}

func TestClampedCoverage(t *testing.T) {
	assert.Equal(t, 100, testrun.TestRun{Coverage: 140}.ClampedCoverage())
	assert.Equal(t, 0, testrun.TestRun{Coverage: -3}.ClampedCoverage())
	assert.Equal(t, 72, testrun.TestRun{Coverage: 72}.ClampedCoverage())
}
