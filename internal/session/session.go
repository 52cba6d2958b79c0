// Package session is the console's authentication boundary. It never checks a
// signature: the API does that on every call. It only decides whether a token
// is worth sending.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kazz187/novapm/pkg/clog"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	// DefaultOwner keys per-user settings when the token carries no user id.
	DefaultOwner = "default"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	// ExpiresAt is zero for tokens that are not JWTs.
	ExpiresAt time.Time
}

// Owner is the key settings are stored under for this session.
func (s *Session) Owner() string {
	if s == nil || s.UserID == "" {
		return DefaultOwner
	}
	return s.UserID
}

// Inspect reads the claims of an access token. It reports false for an empty
// or expired token. A token that does not parse as a JWT is passed through
// as is.
func Inspect(token string, now time.Time) (*Session, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}
	s := &Session{Token: token}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s, true
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
		if !now.Before(exp.Time) {
			return nil, false
		}
	}
	s.UserID = userID(claims["user_id"])
	return s, true
}

func userID(v any) string {
	switch id := v.(type) {
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case string:
		return id
	}
	return ""
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// Token is the access token of the request's session, "" without one.
func Token(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Token
	}
	return ""
}

// Refresher trades a refresh token for a new pair. An empty refresh in the
// result means the old one stays valid.
type Refresher func(ctx context.Context, refresh string) (access, newRefresh string, err error)

// Manager reads and writes the session cookies.
type Manager struct {
	secure  bool
	now     func() time.Time
	refresh Refresher
}

type Option func(*Manager)

// WithRefresher lets Require renew an expired access token from the refresh
// cookie instead of answering unauthorized.
func WithRefresher(r Refresher) Option {
	return func(m *Manager) {
		m.refresh = r
	}
}

func NewManager(secure bool, opts ...Option) *Manager {
	m := &Manager{secure: secure, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Read returns the request's session if its access cookie holds a live token.
func (m *Manager) Read(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(AccessCookie)
	if err != nil {
		return nil, false
	}
	s, ok := Inspect(c.Value, m.now())
	if !ok {
		return nil, false
	}
	if rc, err := r.Cookie(RefreshCookie); err == nil {
		s.RefreshToken = rc.Value
	}
	return s, true
}

// Set stores the token pair. An empty refresh token leaves the existing
// refresh cookie alone.
func (m *Manager) Set(w http.ResponseWriter, access, refresh string) {
	ac := m.cookie(AccessCookie, access)
	if s, ok := Inspect(access, m.now()); ok && !s.ExpiresAt.IsZero() {
		ac.Expires = s.ExpiresAt
	}
	http.SetCookie(w, ac)
	if refresh != "" {
		http.SetCookie(w, m.cookie(RefreshCookie, refresh))
	}
}

func (m *Manager) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		c := m.cookie(name, "")
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (m *Manager) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Require lets a request through only with a live access token, which the
// handler then finds with FromContext. Otherwise unauthorized answers and the
// page handler never runs.
func (m *Manager) Require(unauthorized http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := m.Read(r)
			if !ok {
				s, ok = m.renew(w, r)
			}
			if !ok {
				unauthorized.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if s.UserID != "" {
				clog.AddAttribute(ctx, "user_id", s.UserID)
			}
			next.ServeHTTP(w, r.WithContext(WithSession(ctx, s)))
		})
	}
}

// renew exchanges the refresh cookie for a new access token and stores the
// new pair. It reports false when there is nothing to renew or the API
// refuses, leaving the cookies as they were.
func (m *Manager) renew(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	if m.refresh == nil {
		return nil, false
	}
	rc, err := r.Cookie(RefreshCookie)
	if err != nil || strings.TrimSpace(rc.Value) == "" {
		return nil, false
	}
	ctx := r.Context()
	access, refresh, err := m.refresh(ctx, rc.Value)
	if err != nil {
		clog.AddError(ctx, err)
		slog.WarnContext(ctx, "session refresh failed", "error", err)
		return nil, false
	}
	s, ok := Inspect(access, m.now())
	if !ok {
		return nil, false
	}
	m.Set(w, access, refresh)
	s.RefreshToken = rc.Value
	if refresh != "" {
		s.RefreshToken = refresh
	}
	return s, true
}
