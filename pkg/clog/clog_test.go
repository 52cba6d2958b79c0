package clog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAttributesMergesNestedMaps(t *testing.T) {
	ctx := ContextWithSlog(context.Background())
	AddAttributes(ctx, map[string]any{"api": map[string]any{"path": "/projects/pm/"}})
	AddAttributes(ctx, map[string]any{"api": map[string]any{"status": 200}})

	attrs := GetAttributes(ctx)
	require.Contains(t, attrs, "api")
	assert.Equal(t, map[string]any{"path": "/projects/pm/", "status": 200}, attrs["api"])
}

func TestAttributesWithoutSlogContextAreIgnored(t *testing.T) {
	ctx := context.Background()
	AddAttribute(ctx, "k", "v")
	assert.Nil(t, GetAttributes(ctx))
	assert.Nil(t, GetError(ctx))
}

func TestHTTPStatusToLevel(t *testing.T) {
	tests := []struct {
		status int
		want   Level
	}{
		{http.StatusOK, LevelInfo},
		{http.StatusSeeOther, LevelInfo},
		{499, LevelInfo},
		{http.StatusUnauthorized, LevelWarn},
		{http.StatusBadGateway, LevelError},
		{0, LevelError},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusToLevel(tt.status))
		})
	}
}

func TestHTTPTextHandlerWritesColumnsAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewAttributesHandler(NewHTTPTextHandler(&buf, WithColor(false), WithLevel(slog.LevelDebug))))

	ctx := ContextWithSlog(context.Background())
	AddAttributes(ctx, map[string]any{"method": "GET", "path": "/pm/projects", "status": 502})
	AddError(ctx, errors.New("upstream down"))
	logger.ErrorContext(ctx, "Bad Gateway", "page", "projects")

	out := buf.String()
	assert.Contains(t, out, "ERROR GET /pm/projects 502 Bad Gateway upstream down")
	assert.Contains(t, out, "    page=projects\n")
}

func TestSlogChiMiddlewareSetsRequestID(t *testing.T) {
	var seen string
	h := SlogChiMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", seen)
}
