package panicerr

import (
	"context"

	"github.com/sourcegraph/conc/panics"

	"github.com/kazz187/novapm/pkg/cerr"
)

// SafeContext runs fn on a pool goroutine and reports a panic in it as an
// Internal error with no user-facing message, so callers show their own
// fallback text.
func SafeContext(fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var catcher panics.Catcher
		var err error
		catcher.Try(func() { err = fn(ctx) })
		if r := catcher.Recovered(); r != nil {
			return cerr.NewError(cerr.Internal, "", r.AsError())
		}
		return err
	}
}
