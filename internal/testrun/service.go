package testrun

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/kazz187/novapm/pkg/cerr"
)

// Upstream is the part of the API client the service needs.
type Upstream interface {
	TestRuns(ctx context.Context, token string) ([]*TestRun, error)
}

type Source string

const (
	SourceUpstream  Source = "upstream"
	SourceCatalogue Source = "catalogue"
)

type Listing struct {
	Runs   []*TestRun
	Source Source
}

// HasSample reports whether any row is seeded sample data, which the page
// must flag.
func (l *Listing) HasSample() bool {
	return slices.ContainsFunc(l.Runs, func(r *TestRun) bool { return r.Sample })
}

type Service struct {
	upstream Upstream
	repo     Repository
}

func NewService(upstream Upstream, repo Repository) *Service {
	return &Service{upstream: upstream, repo: repo}
}

// List prefers the API's test runs and falls back to the local catalogue when
// the API has none or cannot serve them. Authentication failures are not
// masked by the fallback.
func (s *Service) List(ctx context.Context, token string) (*Listing, error) {
	if s.upstream != nil {
		runs, err := s.upstream.TestRuns(ctx, token)
		switch {
		case err == nil && len(runs) > 0:
			return &Listing{Runs: runs, Source: SourceUpstream}, nil
		case cerr.IsCode(err, cerr.Unauthenticated), cerr.IsCode(err, cerr.Canceled):
			return nil, err
		case err != nil:
			slog.WarnContext(ctx, "upstream test runs unavailable, using catalogue", "error", err)
		}
	}

	runs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list test run catalogue: %w", err)
	}
	listing := &Listing{Runs: runs, Source: SourceCatalogue}
	if listing.HasSample() {
		slog.WarnContext(ctx, "serving sample test runs", "count", len(runs))
	}
	return listing, nil
}
