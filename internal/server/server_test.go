package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mingle/internal/config"
	"mingle/internal/database"
	"mingle/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a full server against sqlite :memory: and miniredis.
func newTestServer(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	cfg := &config.Config{
		Port:              "0",
		Env:               "test",
		SessionSecret:     "test-session-secret",
		SessionTTLHours:   1,
		InstancePath:      t.TempDir(),
		UploadsFolder:     "uploads",
		AllowedExtensions: "png,jpg,jpeg,gif",
	}

	s, err := NewServerWithDeps(cfg, db, redisClient)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db
}

// sessionCookie extracts the session cookie value from a response, or ""
// when none was set.
func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	return ""
}

func get(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func postFormRequest(t *testing.T, app *fiber.App, path, cookie string, values url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// decodePage parses a JSON page payload.
func decodePage(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &page), "body: %s", string(body))
	return page
}

// flashMessages pulls the notice texts out of a decoded page payload.
func flashMessages(page map[string]any) []string {
	raw, _ := page["flashes"].([]any)
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(map[string]any); ok {
			if msg, ok := m["message"].(string); ok {
				messages = append(messages, msg)
			}
		}
	}
	return messages
}

func registerUser(t *testing.T, app *fiber.App, username, password string) {
	t.Helper()
	resp := postFormRequest(t, app, "/", "", url.Values{
		"register-username":   {username},
		"register-first_name": {"Test"},
		"register-last_name":  {"User"},
		"register-password":   {password},
		"register-submit":     {"Sign Up"},
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

// loginUser signs in and returns the authenticated session cookie.
func loginUser(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := postFormRequest(t, app, "/", "", url.Values{
		"login-username": {username},
		"login-password": {password},
		"login-submit":   {"Sign In"},
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/stream/"+username, resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	require.NotEmpty(t, cookie)
	return cookie
}

func signup(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	registerUser(t, app, username, "password123")
	return loginUser(t, app, username, "password123")
}
