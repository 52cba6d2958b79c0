package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/novapm/internal/testrun"
	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/storage"
)

const testRunsPrefix = "testruns"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(code string) string {
	return fmt.Sprintf("%s/%s.yaml", testRunsPrefix, code)
}

func (r *YAMLRepository) List(ctx context.Context) ([]*testrun.TestRun, error) {
	paths, err := r.storage.List(ctx, testRunsPrefix)
	if err != nil {
		return nil, cerr.WrapStorageListError("test runs", err)
	}
	runs := make([]*testrun.TestRun, 0, len(paths))
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			return nil, cerr.WrapStorageReadError("test run", err)
		}
		var run testrun.TestRun
		if err := yaml.Unmarshal(data, &run); err != nil {
			return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal test run %s: %w", p, err))
		}
		runs = append(runs, &run)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })
	return runs, nil
}

func (r *YAMLRepository) Save(ctx context.Context, run *testrun.TestRun) error {
	if run.Code == "" {
		return cerr.NewError(cerr.InvalidArgument, "test run code is required", nil)
	}
	data, err := yaml.Marshal(run)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal test run: %w", err))
	}
	if err := r.storage.Write(ctx, path(run.Code), data); err != nil {
		return cerr.WrapStorageWriteError("test run", err)
	}
	return nil
}

// Seed writes each run whose code is not in the catalogue yet and reports
// whether it wrote any. Runs already stored, edited or not, are left alone.
func (r *YAMLRepository) Seed(ctx context.Context, runs []*testrun.TestRun) (bool, error) {
	seeded := false
	for _, run := range runs {
		ok, err := r.storage.Exists(ctx, path(run.Code))
		if err != nil {
			return seeded, cerr.WrapStorageReadError("test run", err)
		}
		if ok {
			continue
		}
		if err := r.Save(ctx, run); err != nil {
			return seeded, err
		}
		seeded = true
	}
	return seeded, nil
}
