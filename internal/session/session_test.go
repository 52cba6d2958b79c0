package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-our-secret"))
	require.NoError(t, err)
	return tok
}

func TestInspect(t *testing.T) {
	live := signed(t, jwt.MapClaims{"user_id": 42, "exp": now.Add(time.Hour).Unix()})
	expired := signed(t, jwt.MapClaims{"user_id": 42, "exp": now.Add(-time.Minute).Unix()})
	noExp := signed(t, jwt.MapClaims{"user_id": "u-7"})

	tests := []struct {
		name      string
		token     string
		wantOK    bool
		wantOwner string
	}{
		{"live jwt", live, true, "42"},
		{"expired jwt", expired, false, ""},
		{"jwt without exp", noExp, true, "u-7"},
		{"opaque token", "abc123", true, DefaultOwner},
		{"empty", "  ", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := Inspect(tt.token, now)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantOwner, s.Owner())
			}
		})
	}
}

func TestRequire(t *testing.T) {
	m := NewManager(false)
	m.now = func() time.Time { return now }

	unauthorized := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Unauthorized"))
	})
	var gotToken string
	h := m.Require(unauthorized)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = Token(r.Context())
	}))

	t.Run("no cookie", func(t *testing.T) {
		gotToken = ""
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pm", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, gotToken)
	})

	t.Run("expired cookie", func(t *testing.T) {
		gotToken = ""
		req := httptest.NewRequest(http.MethodGet, "/pm", nil)
		req.AddCookie(&http.Cookie{Name: AccessCookie, Value: signed(t, jwt.MapClaims{"exp": now.Add(-time.Second).Unix()})})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, gotToken)
	})

	t.Run("live cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/pm", nil)
		req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "opaque"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "opaque", gotToken)
	})
}

func TestRequireRenewsExpiredToken(t *testing.T) {
	fresh := signed(t, jwt.MapClaims{"user_id": 7, "exp": now.Add(time.Hour).Unix()})
	expired := signed(t, jwt.MapClaims{"user_id": 7, "exp": now.Add(-time.Minute).Unix()})

	tests := []struct {
		name        string
		refreshCk   string
		newRefresh  string
		refreshErr  error
		wantCode    int
		wantCalls   int
		wantCookies []string
		wantRefresh string
	}{
		{"rotates both tokens", "r1", "r2", nil, http.StatusOK, 1, []string{AccessCookie, RefreshCookie}, "r2"},
		{"keeps refresh when not rotated", "r1", "", nil, http.StatusOK, 1, []string{AccessCookie}, "r1"},
		{"refresh refused", "r1", "", errors.New("token is blacklisted"), http.StatusUnauthorized, 1, nil, ""},
		{"no refresh cookie", "", "", nil, http.StatusUnauthorized, 0, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			m := NewManager(false, WithRefresher(func(_ context.Context, refresh string) (string, string, error) {
				calls++
				assert.Equal(t, tt.refreshCk, refresh)
				if tt.refreshErr != nil {
					return "", "", tt.refreshErr
				}
				return fresh, tt.newRefresh, nil
			}))
			m.now = func() time.Time { return now }

			var got *Session
			h := m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = FromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/pm", nil)
			req.AddCookie(&http.Cookie{Name: AccessCookie, Value: expired})
			if tt.refreshCk != "" {
				req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: tt.refreshCk})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCalls, calls)
			var names []string
			for _, c := range rec.Result().Cookies() {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.wantCookies, names)
			if tt.wantCode != http.StatusOK {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, fresh, got.Token)
			assert.Equal(t, "7", got.Owner())
			assert.Equal(t, tt.wantRefresh, got.RefreshToken)
		})
	}
}

func TestSetAndClear(t *testing.T) {
	m := NewManager(true)
	m.now = func() time.Time { return now }
	exp := now.Add(time.Hour).Truncate(time.Second)

	rec := httptest.NewRecorder()
	m.Set(rec, signed(t, jwt.MapClaims{"exp": exp.Unix()}), "refresh")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, AccessCookie, cookies[0].Name)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, exp.Equal(cookies[0].Expires))
	assert.Equal(t, RefreshCookie, cookies[1].Name)

	rec = httptest.NewRecorder()
	m.Clear(rec)
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge)
		assert.Empty(t, c.Value)
	}
}
