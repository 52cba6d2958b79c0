package cerr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/novapm/pkg/storage"
)

func TestCodeFromHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Code
	}{
		{http.StatusOK, OK},
		{http.StatusBadRequest, InvalidArgument},
		{http.StatusUnauthorized, Unauthenticated},
		{http.StatusForbidden, PermissionDenied},
		{http.StatusNotFound, NotFound},
		{http.StatusTooManyRequests, ResourceExhausted},
		{http.StatusBadGateway, Unavailable},
		{http.StatusInternalServerError, Internal},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, CodeFromHTTPStatus(tt.status))
		})
	}
}

func TestHTTPCodeRoundTripsForClientErrors(t *testing.T) {
	for _, c := range []Code{InvalidArgument, Unauthenticated, PermissionDenied, NotFound} {
		assert.Equal(t, c, CodeFromHTTPStatus(c.HTTPCode()), c.String())
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("failed to list projects: %w", NewError(Unauthenticated, "Given token not valid", nil))
	assert.Equal(t, "Given token not valid", Message(err, "Failed to load data"))
	assert.Equal(t, "Failed to load data", Message(errors.New("dial tcp: refused"), "Failed to load data"))
	assert.True(t, IsCode(err, Unauthenticated))
	assert.Equal(t, Unauthenticated, CodeOf(err))
	assert.Equal(t, OK, CodeOf(nil))
}

func TestNewErrorCapturesStackOnlyForServerErrors(t *testing.T) {
	assert.Empty(t, NewError(NotFound, "task not found", nil).Stack)
	assert.NotEmpty(t, NewError(Internal, "server error", nil).Stack)
}

func TestWrapStorageReadError(t *testing.T) {
	err := WrapStorageReadError("settings", fmt.Errorf("pm.yaml: %w", storage.ErrNotFound))
	assert.True(t, IsCode(err, NotFound))
	assert.Equal(t, "settings not found", Message(err, ""))

	err = WrapStorageReadError("settings", errors.New("disk"))
	assert.True(t, IsCode(err, Internal))
}

func TestJSONResponseChiMiddleware(t *testing.T) {
	mw := NewJSONResponseChiMiddleware()

	t.Run("response", func(t *testing.T) {
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			SetJSONResponse(r.Context(), map[string]int{"count": 2})
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pm/projects", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"count":2}`, rec.Body.String())
	})

	t.Run("error", func(t *testing.T) {
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			SetNewJSONError(r.Context(), Unauthenticated, "Unauthorized", nil)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pm/projects", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{"code": "unauthenticated", "message": "Unauthorized"}, body)
	})

	t.Run("canceled", func(t *testing.T) {
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			SetJSONError(r.Context(), context.Canceled)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pm/projects", nil))
		assert.Equal(t, 499, rec.Code)
	})
}
