// Package apiclient is the typed client for the project management REST API
// the console renders.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kazz187/novapm/pkg/cerr"
	"github.com/kazz187/novapm/pkg/clog"
	"github.com/kazz187/novapm/pkg/metrics"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 4 << 20
)

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	method string
	// endpoint is the route template, used for metrics and logs.
	endpoint string
	path     string
	token    string
	public   bool
	body     any
	fallback string
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	if !cl.public && strings.TrimSpace(cl.token) == "" {
		return missingToken()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return cerr.NewError(cerr.Internal, cl.fallback, fmt.Errorf("failed to encode %s body: %w", cl.endpoint, err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return cerr.NewError(cerr.Internal, cl.fallback, fmt.Errorf("failed to build %s %s request: %w", cl.method, cl.endpoint, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	if id := clog.RequestID(ctx); id != "" {
		req.Header.Set(clog.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(cl.method, cl.endpoint, 0, time.Since(start))
		if errors.Is(err, context.Canceled) {
			return cerr.NewError(cerr.Canceled, cl.fallback, err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return cerr.NewError(cerr.DeadlineExceeded, cl.fallback, err)
		}
		return cerr.NewError(cerr.Unavailable, cl.fallback, fmt.Errorf("failed to call %s %s: %w", cl.method, cl.endpoint, err))
	}
	defer resp.Body.Close()
	metrics.RecordAPICall(cl.method, cl.endpoint, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return cerr.NewError(cerr.Unavailable, cl.fallback, fmt.Errorf("failed to read %s %s response: %w", cl.method, cl.endpoint, err))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return cerr.NewError(
			cerr.CodeFromHTTPStatus(resp.StatusCode),
			errorMessage(resp.StatusCode, data, cl.fallback),
			fmt.Errorf("%s %s: status %d", cl.method, cl.endpoint, resp.StatusCode),
		)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return cerr.NewError(cerr.Internal, cl.fallback, fmt.Errorf("failed to decode %s %s response: %w", cl.method, cl.endpoint, err))
	}
	return nil
}

func get[T any](ctx context.Context, c *Client, cl call) (T, error) {
	var out T
	cl.method = http.MethodGet
	if err := c.do(ctx, cl, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// list decodes a JSON array and never returns a nil slice on success.
func list[T any](ctx context.Context, c *Client, cl call) ([]T, error) {
	items, err := get[[]T](ctx, c, cl)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
