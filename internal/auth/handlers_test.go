package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"verdra-backend/internal/database"
	"verdra-backend/internal/middleware"
	"verdra-backend/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAuthApp wires the real session middleware against miniredis so the
// full cookie round trip is exercised.
func setupAuthApp(t *testing.T) (*fiber.App, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := middleware.SessionConfig{
		Secret:   "test-secret",
		RedisURL: "redis://" + mr.Addr(),
	}
	sessionHandler, rdb, err := middleware.Session(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	db, err := database.Open("")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	s, err := store.New(db)
	require.NoError(t, err)

	h := &Handlers{
		Service: &Service{Store: s},
		Store:   s,
		Rdb:     rdb,
		Config:  cfg,
	}
	app := fiber.New()
	app.Use(sessionHandler)
	app.Post("/api/register", h.Register)
	app.Post("/api/login", h.Login)
	app.Post("/api/logout", h.Logout)
	app.Get("/api/user", h.CurrentUser)
	return app, rdb
}

func postJSON(t *testing.T, app *fiber.App, path string, body map[string]string, cookie string) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, sc := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(sc, middleware.SessionCookieName+"=") {
			return strings.SplitN(sc, ";", 2)[0]
		}
	}
	t.Fatal("no session cookie set")
	return ""
}

func TestRegister_CreatesUserAndSession(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := postJSON(t, app, "/api/register", map[string]string{"username": "alice", "password": "hunter2"}, "")
	require.Equal(t, 201, resp.StatusCode)

	var user map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "1000", user["balance"], "seed balance, numeric-as-string")
	assert.NotContains(t, user, "password")

	cookie := sessionCookie(t, resp)
	assert.True(t, strings.Contains(cookie, "s%3A") || strings.Contains(cookie, "s:"),
		"express-session cookie value form, got %q", cookie)

	// Session works for the authenticated user endpoint.
	req := httptest.NewRequest("GET", "/api/user", nil)
	req.Header.Set("Cookie", cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "alice", user["username"])
}

func TestRegister_DuplicateAndMissing(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := postJSON(t, app, "/api/register", map[string]string{"username": "alice", "password": "hunter2"}, "")
	require.Equal(t, 201, resp.StatusCode)

	resp = postJSON(t, app, "/api/register", map[string]string{"username": "alice", "password": "other"}, "")
	assert.Equal(t, 400, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Username already exists", string(body))

	resp = postJSON(t, app, "/api/register", map[string]string{"username": "bob"}, "")
	assert.Equal(t, 400, resp.StatusCode)
}

func TestLogin_FlowAndBadCredentials(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := postJSON(t, app, "/api/register", map[string]string{"username": "alice", "password": "hunter2"}, "")
	require.Equal(t, 201, resp.StatusCode)

	resp = postJSON(t, app, "/api/login", map[string]string{"username": "alice", "password": "hunter2"}, "")
	require.Equal(t, 200, resp.StatusCode)
	var user map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "alice", user["username"])

	resp = postJSON(t, app, "/api/login", map[string]string{"username": "alice", "password": "wrong"}, "")
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCurrentUser_Unauthenticated(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/user", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Unauthorized", string(body))
}

func TestLogout_DestroysSession(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := postJSON(t, app, "/api/register", map[string]string{"username": "alice", "password": "hunter2"}, "")
	require.Equal(t, 201, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	resp = postJSON(t, app, "/api/logout", nil, cookie)
	assert.Equal(t, 200, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/user", nil)
	req.Header.Set("Cookie", cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
