package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/auth"
	"github.com/VybCoding/OneWonderLake/internal/config"
	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		os.Exit(m.Run())
	}

	if err := db.Connect(config.DatabaseConfig{
		URL:           databaseURL,
		MaxOpenConns:  4,
		MaxIdleConns:  2,
		SlowThreshold: time.Second,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "auth integration: ", err)
		os.Exit(1)
	}
	dbAvailable = true

	auth.Init()

	r := chi.NewRouter()
	r.Mount("/auth", auth.SetupRoutes(auth.NewHandler(auth.NewGormStore(db.DB), 6*time.Hour, false)))

	testServer = httptest.NewServer(r)
	code := m.Run()
	testServer.Close()
	os.Exit(code)
}

// createTestUser inserts a unique user and removes it when the test ends.
func createTestUser(t *testing.T) (username, password string) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	username = fmt.Sprintf("testuser_%s", uuid.New().String()[:8])
	password = "TestPass123!"
	u, err := auth.CreateUser(context.Background(), auth.NewGormStore(db.DB), username, "", password, auth.RoleAdmin)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.DB.Where("user_id = ?", u.UserID).Delete(&auth.Session{})
		db.DB.Where("user_id = ?", u.UserID).Delete(&auth.User{})
	})

	return username, password
}

func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func loginUser(t *testing.T, client *http.Client, username, password string) *http.Response {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	resp, err := client.Post(testServer.URL+"/auth/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestIntegration_SessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestUser(t)
	client := newClientWithJar(t)

	resp := loginUser(t, client, username, password)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "session_id")

	// Reloading the page keeps the session.
	for i := 0; i < 2; i++ {
		me, err := client.Get(testServer.URL + "/auth/user")
		require.NoError(t, err)
		me.Body.Close()
		assert.Equal(t, http.StatusOK, me.StatusCode)
	}

	out, err := client.Post(testServer.URL+"/auth/logout", "application/json", nil)
	require.NoError(t, err)
	out.Body.Close()
	require.Equal(t, http.StatusOK, out.StatusCode)

	me, err := client.Get(testServer.URL + "/auth/user")
	require.NoError(t, err)
	me.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, me.StatusCode)
}

func TestIntegration_ExpiredSessionRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestUser(t)
	client := newClientWithJar(t)

	require.Equal(t, http.StatusOK, loginUser(t, client, username, password).StatusCode)

	user, err := auth.NewGormStore(db.DB).FindUserByUsername(context.Background(), username)
	require.NoError(t, err)
	require.NoError(t, db.DB.Model(&auth.Session{}).
		Where("user_id = ?", user.UserID).
		Update("expires_at", time.Now().Add(-1*time.Hour)).Error)

	me, err := client.Get(testServer.URL + "/auth/user")
	require.NoError(t, err)
	defer me.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, me.StatusCode)
}
