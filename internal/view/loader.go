// Package view holds the per-page state every console page shares: parallel
// list refreshes, modal form drafts and the small formatting helpers
// templates call.
package view

import (
	"context"
	"errors"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/metrics"
	"github.com/kazz187/novapm/pkg/panicerr"
)

const LoadFailedMessage = "Failed to load data"

// ErrSuperseded is returned by a refresh whose result was dropped because a
// newer refresh on the same Loader started after it.
var ErrSuperseded = errors.New("refresh superseded")

// Binding ties one list endpoint to the page field it fills.
type Binding interface {
	fetch(ctx context.Context) (commit func(), err error)
	clear()
}

type binding[T any] struct {
	dst *[]T
	fn  func(context.Context) ([]T, error)
}

func Bind[T any](dst *[]T, fn func(context.Context) ([]T, error)) Binding {
	return &binding[T]{dst: dst, fn: fn}
}

func (b *binding[T]) fetch(ctx context.Context) (func(), error) {
	items, err := b.fn(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return func() { *b.dst = items }, nil
}

func (b *binding[T]) clear() {
	*b.dst = []T{}
}

// Loader refreshes a page's lists together. Either every list is replaced or
// every list is emptied and Err explains why; there is no partial result.
type Loader struct {
	bindings []Binding

	mu      sync.Mutex
	gen     uint64
	loading bool
	err     string
}

func NewLoader(bindings ...Binding) *Loader {
	return &Loader{bindings: bindings}
}

func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Err is the message of the last committed refresh, empty after a success.
func (l *Loader) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Refresh fetches every binding in parallel. The first failure cancels the
// rest. A refresh overtaken by a later one commits nothing and returns
// ErrSuperseded.
func (l *Loader) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.loading = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		if l.gen == gen {
			l.loading = false
		}
		l.mu.Unlock()
	}()

	commits := make([]func(), len(l.bindings))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, b := range l.bindings {
		p.Go(panicerr.SafeContext(func(ctx context.Context) error {
			commit, err := b.fetch(ctx)
			if err != nil {
				return err
			}
			commits[i] = commit
			return nil
		}))
	}
	err := p.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		metrics.RefreshSuperseded.Inc()
		return ErrSuperseded
	}
	if err != nil {
		for _, b := range l.bindings {
			b.clear()
		}
		l.err = cerr.Message(err, LoadFailedMessage)
		return err
	}
	for _, commit := range commits {
		commit()
	}
	l.err = ""
	return nil
}
