package testrun

import "context"

type Repository interface {
	List(ctx context.Context) ([]*TestRun, error)
	Save(ctx context.Context, r *TestRun) error
	// Seed writes the runs whose code is not stored yet and reports whether
	// it wrote any.
	Seed(ctx context.Context, runs []*TestRun) (bool, error)
}
