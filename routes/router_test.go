package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/auth"
	"github.com/VybCoding/OneWonderLake/internal/buildinfo"
	"github.com/VybCoding/OneWonderLake/internal/middleware"
	"github.com/VybCoding/OneWonderLake/internal/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authStore answers session and user lookups; nothing else is reached.
type authStore struct {
	auth.Store
	users    map[string]*auth.User
	sessions map[string]*auth.Session
}

func (s *authStore) FindUserByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return u, nil
}

func (s *authStore) FindSession(_ context.Context, id string) (*auth.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return sess, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	exp := time.Now().Add(time.Hour)
	store := &authStore{
		users: map[string]*auth.User{
			"u-admin": {UserID: "u-admin", Username: "ann", Role: auth.RoleAdmin},
			"u-user":  {UserID: "u-user", Username: "bob", Role: auth.RoleUser},
		},
		sessions: map[string]*auth.Session{
			"s-admin": {SessionID: "s-admin", UserID: "u-admin", ExpiresAt: exp},
			"s-user":  {SessionID: "s-user", UserID: "u-user", ExpiresAt: exp},
		},
	}
	rates, err := tax.DefaultRates()
	require.NoError(t, err)

	return NewRouter(Deps{
		AllowedOrigins: []string{"http://localhost:5173"},
		Sessions:       auth.SessionInfo{Store: store},
		Limiter:        middleware.NewSubmissionLimiter(5, time.Hour),
		Auth:           auth.NewHandler(store, time.Hour, false),
		Tax:            tax.NewHandler(rates),
		BuildInfo:      buildinfo.NewHandler(buildinfo.Info{Version: "1.1.9"}),
	})
}

func get(h http.Handler, path, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: session})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	h := newTestRouter(t)

	rec := get(h, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Server is up!\n", rec.Body.String())

	rec = get(h, "/api/build-info", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.1.9"`)

	rec = get(h, "/api/taxing-bodies", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(h, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

}

func TestAdminGuard(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{
		"/api/admin/searched-addresses",
		"/api/admin/interested",
		"/api/admin/questions",
		"/api/admin/contacts",
		"/api/admin/emails",
	} {
		assert.Equal(t, http.StatusUnauthorized, get(h, path, "").Code, path)
		assert.Equal(t, http.StatusUnauthorized, get(h, path, "s-gone").Code, path)
		assert.Equal(t, http.StatusForbidden, get(h, path, "s-user").Code, path)
	}
}

func TestAdminCheck(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/admin/check", "").Code)

	rec := get(h, "/api/admin/check", "s-user")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isAdmin":false}`, rec.Body.String())

	rec = get(h, "/api/admin/check", "s-admin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isAdmin":true}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/interested", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
