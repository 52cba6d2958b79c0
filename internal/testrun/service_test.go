package testrun_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/novapm/internal/testrun"
	"github.com/kazz187/novapm/internal/testrun/repositoryimpl"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/storage"
)

type fakeUpstream struct {
	runs []*testrun.TestRun
	err  error
}

func (f fakeUpstream) TestRuns(context.Context, string) ([]*testrun.TestRun, error) {
	return f.runs, f.err
}

func seededRepo(t *testing.T) testrun.Repository {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := repositoryimpl.NewYAMLRepository(s)
	_, err = repo.Seed(context.Background(), testrun.SampleRuns())
	require.NoError(t, err)
	return repo
}

func TestServiceList(t *testing.T) {
	live := []*testrun.TestRun{{ID: 40, Code: "TR-140", Title: "Nightly", Status: testrun.StatusCompleted, Coverage: 93}}

	tests := []struct {
		name       string
		upstream   testrun.Upstream
		wantSource testrun.Source
		wantSample bool
		wantCode   cerr.Code
	}{
		{"upstream rows win", fakeUpstream{runs: live}, testrun.SourceUpstream, false, cerr.OK},
		{"empty upstream falls back", fakeUpstream{}, testrun.SourceCatalogue, true, cerr.OK},
		{"missing endpoint falls back", fakeUpstream{err: cerr.NewError(cerr.NotFound, "Not found.", nil)}, testrun.SourceCatalogue, true, cerr.OK},
		{"network failure falls back", fakeUpstream{err: errors.New("dial tcp: refused")}, testrun.SourceCatalogue, true, cerr.OK},
		{"no upstream", nil, testrun.SourceCatalogue, true, cerr.OK},
		{"auth failure surfaces", fakeUpstream{err: cerr.NewError(cerr.Unauthenticated, "Unauthorized", nil)}, "", false, cerr.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testrun.NewService(tt.upstream, seededRepo(t))
			got, err := svc.List(context.Background(), "tok")
			if tt.wantCode != cerr.OK {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, cerr.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantSample, got.HasSample())
			assert.NotEmpty(t, got.Runs)
		})
	}
}
