package auth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps users and sessions in maps.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*User
	sessions map[string]*Session
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*User{}, sessions: map[string]*Session{}}
}

func (m *memStore) FindUserByUsername(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) FindUserByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
	}
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

func (m *memStore) UpdatePassword(_ context.Context, userID, hashed string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.HashedPassword = hashed
	return nil
}

func (m *memStore) PutSession(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.sessions {
		if existing.UserID == s.UserID {
			delete(m.sessions, id)
		}
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *memStore) FindSession(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func newServer(t *testing.T, store *memStore) *httptest.Server {
	t.Helper()
	h := NewHandler(store, time.Hour, false)
	sessions := middleware.SessionMiddleware(SessionInfo{Store: store})

	r := chi.NewRouter()
	r.Mount("/auth", SetupRoutes(h))
	r.With(sessions).Get("/admin/check", h.AdminCheckHandler)
	r.With(sessions, middleware.AdminMiddleware(SessionInfo{Store: store})).Get("/admin/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func login(t *testing.T, c *http.Client, srv *httptest.Server, username, password string) *http.Response {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	resp, err := c.Post(srv.URL+"/auth/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateUser(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	u, err := CreateUser(ctx, store, "  clerk ", "clerk@example.com", "hunter22", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "clerk", u.Username)
	assert.True(t, u.IsAdmin())
	assert.NotEqual(t, "hunter22", u.HashedPassword)

	_, err = CreateUser(ctx, store, "clerk", "", "other", RoleUser)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = CreateUser(ctx, store, "x", "", "pw", "superuser")
	assert.Error(t, err)

	_, err = CreateUser(ctx, store, "", "", "pw", RoleUser)
	assert.Error(t, err)
}

func TestLoginAndAdminCheck(t *testing.T) {
	store := newMemStore()
	_, err := CreateUser(context.Background(), store, "admin", "", "s3cret-pass", RoleAdmin)
	require.NoError(t, err)
	srv := newServer(t, store)
	c := newClient(t)

	resp := login(t, c, srv, "admin", "s3cret-pass")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "session_id=")
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "HttpOnly")

	resp = get(t, c, srv.URL+"/auth/user")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, c, srv.URL+"/admin/check")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, c, srv.URL+"/admin/ping")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newMemStore()
	_, err := CreateUser(context.Background(), store, "admin", "", "right-pass", RoleAdmin)
	require.NoError(t, err)
	srv := newServer(t, store)

	assert.Equal(t, http.StatusUnauthorized, login(t, newClient(t), srv, "admin", "wrong-pass").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, login(t, newClient(t), srv, "nobody", "right-pass").StatusCode)
	assert.Equal(t, http.StatusBadRequest, login(t, newClient(t), srv, "admin", "").StatusCode)
	assert.Empty(t, store.sessions)
}

func TestLogin_ReplacesPreviousSession(t *testing.T) {
	store := newMemStore()
	_, err := CreateUser(context.Background(), store, "admin", "", "pw-12345", RoleAdmin)
	require.NoError(t, err)
	srv := newServer(t, store)

	require.Equal(t, http.StatusOK, login(t, newClient(t), srv, "admin", "pw-12345").StatusCode)
	require.Equal(t, http.StatusOK, login(t, newClient(t), srv, "admin", "pw-12345").StatusCode)
	assert.Len(t, store.sessions, 1)
}

func TestNonAdminIsForbidden(t *testing.T) {
	store := newMemStore()
	_, err := CreateUser(context.Background(), store, "volunteer", "", "pw-12345", RoleUser)
	require.NoError(t, err)
	srv := newServer(t, store)
	c := newClient(t)

	require.Equal(t, http.StatusOK, login(t, c, srv, "volunteer", "pw-12345").StatusCode)

	resp := get(t, c, srv.URL+"/admin/check")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, c, srv.URL+"/admin/ping")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogoutClearsSession(t *testing.T) {
	store := newMemStore()
	_, err := CreateUser(context.Background(), store, "admin", "", "pw-12345", RoleAdmin)
	require.NoError(t, err)
	srv := newServer(t, store)
	c := newClient(t)

	require.Equal(t, http.StatusOK, login(t, c, srv, "admin", "pw-12345").StatusCode)

	resp, err := c.Post(srv.URL+"/auth/logout", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, store.sessions)

	assert.Equal(t, http.StatusUnauthorized, get(t, c, srv.URL+"/auth/user").StatusCode)
}

func TestExpiredSessionRejected(t *testing.T) {
	store := newMemStore()
	_, err := CreateUser(context.Background(), store, "admin", "", "pw-12345", RoleAdmin)
	require.NoError(t, err)
	srv := newServer(t, store)
	c := newClient(t)

	require.Equal(t, http.StatusOK, login(t, c, srv, "admin", "pw-12345").StatusCode)
	store.mu.Lock()
	for _, s := range store.sessions {
		s.ExpiresAt = time.Now().Add(-time.Minute)
	}
	store.mu.Unlock()

	resp := get(t, c, srv.URL+"/auth/user")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdatePassword(t *testing.T) {
	store := newMemStore()
	_, err := CreateUser(context.Background(), store, "admin", "", "old-password", RoleAdmin)
	require.NoError(t, err)
	srv := newServer(t, store)
	c := newClient(t)
	require.Equal(t, http.StatusOK, login(t, c, srv, "admin", "old-password").StatusCode)

	post := func(body string) int {
		resp, err := c.Post(srv.URL+"/auth/password", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, post(`{"current_password":"nope","new_password":"brand-new-pw"}`))
	assert.Equal(t, http.StatusBadRequest, post(`{"current_password":"old-password","new_password":"short"}`))
	assert.Equal(t, http.StatusOK, post(`{"current_password":"old-password","new_password":"brand-new-pw"}`))

	assert.Equal(t, http.StatusOK, login(t, newClient(t), srv, "admin", "brand-new-pw").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, login(t, newClient(t), srv, "admin", "old-password").StatusCode)
}
