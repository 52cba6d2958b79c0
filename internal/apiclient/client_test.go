package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/novapm/internal/bug"
	"github.com/kazz187/novapm/internal/project"
	"github.com/kazz187/novapm/internal/task"
	"github.com/kazz187/novapm/pkg/cerr"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api")
}

func TestMissingTokenNeverCallsAPI(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, err := c.Projects(context.Background(), "", ProjectsManaged)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.True(t, cerr.IsCode(err, cerr.Unauthenticated))
	assert.Equal(t, MissingTokenMessage, cerr.Message(err, ""))
	assert.Zero(t, hits.Load())
}

func TestBearerTokenAndDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/projects/pm/", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":1,"title":"Apollo","status":"Active","due_date":null,"developers":[{"id":3,"name":"Dee"}],"qas":[]}]`)
	})

	got, err := c.Projects(context.Background(), "tok", ProjectsManaged)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Apollo", got[0].Title)
	assert.Equal(t, project.StatusActive, got[0].Status)
	assert.Nil(t, got[0].DueDate)
	assert.Equal(t, []int{3}, got[0].DeveloperIDs())
}

func TestNullListDecodesEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})
	got, err := c.Developers(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode cerr.Code
		wantMsg  string
	}{
		{"detail", http.StatusForbidden, `{"detail":"Only project managers can create projects"}`, cerr.PermissionDenied, "Only project managers can create projects"},
		{"field error", http.StatusBadRequest, `{"title":["This field is required."]}`, cerr.InvalidArgument, "title: This field is required."},
		{"non field error", http.StatusBadRequest, `{"non_field_errors":["Dates overlap"]}`, cerr.InvalidArgument, "Dates overlap"},
		{"unauthorized without detail", http.StatusUnauthorized, ``, cerr.Unauthenticated, UnauthorizedMessage},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, cerr.Unavailable, "Failed to create project"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.CreateProject(context.Background(), "tok", project.NewDraft().Request())
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, cerr.CodeOf(err))
			assert.Equal(t, tt.wantMsg, cerr.Message(err, ""))
		})
	}
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).Tasks(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Unavailable))
	assert.Equal(t, LoadFailedMessage, cerr.Message(err, ""))
}

func TestDecodeFailureIsInternal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"}`)
	})
	_, err := c.Bugs(context.Background(), "tok", BugsQA)
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Internal))
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.QAs(ctx, "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, cerr.IsCode(err, cerr.Canceled))
}

func TestAssignProjectSendsFullMembership(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/projects/7/assign/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"developers":[2,5],"qas":[]}`, string(body))
		_, _ = io.WriteString(w, `{"detail":"ok"}`)
	})
	err := c.AssignProject(context.Background(), "tok", 7, project.Assignment{Developers: []int{2, 5}})
	require.NoError(t, err)
}

func TestCreateTaskSendsNullAssignee(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "assignee")
		assert.Nil(t, body["assignee"])
		assert.Nil(t, body["due_date"])
		assert.EqualValues(t, 4, body["project"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":11,"title":"Write docs","project":"Apollo"}`)
	})
	d := task.NewDraft()
	d.Title = "Write docs"
	d.Project = "4"
	req, err := d.Request()
	require.NoError(t, err)

	got, err := c.CreateTask(context.Background(), "tok", req)
	require.NoError(t, err)
	assert.Equal(t, 11, got.ID)
	assert.Equal(t, "Apollo", got.Project.Title)
}

func TestCompleteTask(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/tasks/3/delete/", r.URL.Path)
		_, _ = io.WriteString(w, `{"detail":"Task marked as completed"}`)
	})
	msg, err := c.CompleteTask(context.Background(), "tok", 3)
	require.NoError(t, err)
	assert.Equal(t, "Task marked as completed", msg)
}

func TestBugScopes(t *testing.T) {
	tests := []struct {
		scope BugScope
		path  string
	}{
		{BugsQA, "/api/bugs/qa/"},
		{BugsManaged, "/api/bugs/pm/"},
		{BugsDev, "/api/bugs/dev/"},
		{BugsReported, "/api/bugs/qa/reported/"},
	}
	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.path, r.URL.Path)
				_, _ = io.WriteString(w, `[{"id":1,"title":"Crash","status":"IN_PROGRESS","severity":"HIGH","project":{"id":2,"title":"Apollo"}}]`)
			})
			got, err := c.Bugs(context.Background(), "tok", tt.scope)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, bug.StatusInFix, got[0].Status.Phase())
		})
	}

	_, err := ParseBugScope("everyone")
	assert.Error(t, err)
}

func TestLoginIsPublic(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"access":"a","refresh":"r"}`)
	})
	tok, err := c.Login(context.Background(), "pm", "secret123")
	require.NoError(t, err)
	assert.Equal(t, &Tokens{Access: "a", Refresh: "r"}, tok)
}

func TestRefreshSession(t *testing.T) {
	t.Run("rotates", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/auth/refresh/", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "r1", body["refresh"])
			_, _ = io.WriteString(w, `{"access":"a2","refresh":"r2"}`)
		})
		access, refresh, err := c.RefreshSession(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, "a2", access)
		assert.Equal(t, "r2", refresh)
	})

	t.Run("refused", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Token is invalid or expired"}`)
		})
		_, _, err := c.RefreshSession(context.Background(), "r1")
		require.Error(t, err)
		assert.True(t, cerr.IsCode(err, cerr.Unauthenticated))
		assert.Equal(t, "Token is invalid or expired", cerr.Message(err, ""))
	})

	t.Run("no refresh token", func(t *testing.T) {
		var hits atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })
		_, _, err := c.RefreshSession(context.Background(), "")
		assert.ErrorIs(t, err, ErrNoToken)
		assert.Zero(t, hits.Load())
	})
}
