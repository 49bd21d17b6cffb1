package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomePage(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestHomeRedirectsWhenLoggedIn(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", "alice@example.com", "secret123")

	resp := app.get(t, "/")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/booking/my-bookings", resp.Header.Get("Location"))
}

func TestDashboardRedirects(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))

	app.register(t, "bob", "bob@example.com", "secret123")
	resp = app.get(t, "/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/booking/my-bookings", resp.Header.Get("Location"))
}

func TestAuthPagesRedirectWhenLoggedIn(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/auth/login", "/auth/register"} {
		resp := app.get(t, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	app.register(t, "carol", "carol@example.com", "secret123")
	for _, path := range []string{"/auth/login", "/auth/register"} {
		resp := app.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/booking/my-bookings", resp.Header.Get("Location"))
	}
}

func TestBookingPagesRequireLogin(t *testing.T) {
	app := newTestApp(t)

	// Browser navigation gets a redirect, not a JSON error
	for _, path := range []string{"/booking/", "/booking/my-bookings"} {
		resp := app.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
	}

	app.register(t, "dave", "dave@example.com", "secret123")
	for _, path := range []string{"/booking/", "/booking/my-bookings"} {
		resp := app.get(t, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestAdminDashboardPageAccess(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "erin", "erin@example.com", "secret123")

	// Regular users are sent back to their bookings
	resp := app.get(t, "/admin/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/booking/my-bookings", resp.Header.Get("Location"))

	app.doJSON(t, http.MethodPost, "/auth/api/logout", nil)
	app.loginAsAdmin(t)
	resp = app.get(t, "/admin/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
