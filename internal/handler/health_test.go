package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthPublic(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.doJSON(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])

	// Unauthenticated callers only get the overall status
	assert.NotContains(t, body, "checks")
	assert.NotContains(t, body, "version")
}

func TestHealthAdminDetail(t *testing.T) {
	app := newTestApp(t)
	app.loginAsAdmin(t)

	resp, body := app.doJSON(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["version"])
	assert.NotEmpty(t, body["uptime"])

	checks := body["checks"].(map[string]any)
	dbCheck := checks["database"].(map[string]any)
	assert.Equal(t, "healthy", dbCheck["status"])

	// verbose adds system info
	resp, body = app.doJSON(t, http.MethodGet, "/health?verbose=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	system := body["system"].(map[string]any)
	assert.NotEmpty(t, system["go_version"])
}

func TestHealthRegularUserGetsPublicView(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", "alice@example.com", "secret123")

	resp, body := app.doJSON(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.NotContains(t, body, "checks")
}

func TestHealthIncludesCacheCheck(t *testing.T) {
	app, _ := newTestAppWithCache(t)
	app.loginAsAdmin(t)

	resp, body := app.doJSON(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	checks := body["checks"].(map[string]any)
	cacheCheck := checks["cache"].(map[string]any)
	assert.Equal(t, "healthy", cacheCheck["status"])
}

func TestLiveness(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.doJSON(t, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
}

func TestReadiness(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.doJSON(t, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
}
