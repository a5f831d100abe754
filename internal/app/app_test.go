package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"verdra-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end over the default config: in-memory SQLite store and embedded
// session Redis, the same shape a bare `go run ./cmd/api` gets.
func setupApp(t *testing.T) *fiber.App {
	cfg := &config.Config{
		Env:           "test",
		Port:          "0",
		SessionSecret: "test-secret",
	}
	app, _, rdb, err := CreateApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })
	return app
}

func request(t *testing.T, app *fiber.App, method, path string, body interface{}, cookie string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestFullTradeFlow(t *testing.T) {
	app := setupApp(t)

	// Projects are public.
	resp := request(t, app, "GET", "/api/projects", nil, "")
	require.Equal(t, 200, resp.StatusCode)
	var projects []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&projects))
	require.Len(t, projects, 2)

	// Trading requires a session.
	resp = request(t, app, "POST", "/api/trade", map[string]interface{}{
		"projectId": 1, "amount": "10", "type": "buy",
	}, "")
	require.Equal(t, 401, resp.StatusCode)

	// Register and pick up the session cookie.
	resp = request(t, app, "POST", "/api/register", map[string]interface{}{
		"username": "alice", "password": "hunter2",
	}, "")
	require.Equal(t, 201, resp.StatusCode)
	var cookie string
	for _, sc := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(sc, "connect.sid=") {
			cookie = strings.SplitN(sc, ";", 2)[0]
		}
	}
	require.NotEmpty(t, cookie)

	// Buy 10 credits at 25: balance 1000 -> 750.
	resp = request(t, app, "POST", "/api/trade", map[string]interface{}{
		"projectId": 1, "amount": "10", "type": "buy",
	}, cookie)
	require.Equal(t, 200, resp.StatusCode)
	var credit map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&credit))
	assert.Equal(t, "buy", credit["type"])
	assert.Equal(t, "25", credit["price"])

	resp = request(t, app, "GET", "/api/user", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)
	var user map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "750", user["balance"])

	// Sell 4 at 25: 750 -> 850, second ledger entry.
	resp = request(t, app, "POST", "/api/trade", map[string]interface{}{
		"projectId": 1, "amount": "4", "type": "sell",
	}, cookie)
	require.Equal(t, 200, resp.StatusCode)

	resp = request(t, app, "GET", "/api/credits", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)
	var credits []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&credits))
	require.Len(t, credits, 2)
	assert.Equal(t, "buy", credits[0]["type"])
	assert.Equal(t, "sell", credits[1]["type"])

	resp = request(t, app, "GET", "/api/user", nil, cookie)
	require.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "850", user["balance"])
}

func TestHealthJSON(t *testing.T) {
	app := setupApp(t)

	resp := request(t, app, "GET", "/health/json", nil, "")
	require.Equal(t, 200, resp.StatusCode)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	deps := out["dependencies"].(map[string]interface{})
	assert.Equal(t, "connected", deps["redis"].(map[string]interface{})["status"])
	assert.Equal(t, "connected", deps["database"].(map[string]interface{})["status"])
}
