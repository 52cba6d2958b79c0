package apiclient

import (
	"context"

	"github.com/kazz187/novapm/internal/testrun"
)

// TestRuns reads the upstream test-run list. Not every deployment of the API
// has this endpoint; callers fall back to the local catalogue.
func (c *Client) TestRuns(ctx context.Context, token string) ([]*testrun.TestRun, error) {
	return list[*testrun.TestRun](ctx, c, call{
		endpoint: "/qa/test-runs/",
		path:     "/qa/test-runs/",
		token:    token,
		fallback: LoadFailedMessage,
	})
}
