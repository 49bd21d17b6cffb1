package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminAPIRequiresAdminRole(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", "alice@example.com", "secret123")

	resp, body := app.doJSON(t, http.MethodGet, "/admin/api/dashboard-stats", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", body["error"])
}

func TestAdminAPIRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.doJSON(t, http.MethodGet, "/admin/api/users", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", body["error"])
}

func TestAdminDashboardStats(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "bob", "bob@example.com", "secret123")
	app.createBooking(t, "Haircut")
	app.createBooking(t, "Massage")
	app.doJSON(t, http.MethodPost, "/auth/api/logout", nil)

	app.loginAsAdmin(t)
	resp, body := app.doJSON(t, http.MethodGet, "/admin/api/dashboard-stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, float64(2), body["totalUsers"])
	assert.Equal(t, float64(2), body["totalBookings"])
	assert.Equal(t, float64(2), body["pendingBookings"])

	recent := body["recentBookings"].([]any)
	require.Len(t, recent, 2)
	first := recent[0].(map[string]any)
	assert.Equal(t, "bob", first["username"])

	users := body["allUsers"].([]any)
	assert.Len(t, users, 2)
}

func TestAdminUpdateBookingStatus(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "carol", "carol@example.com", "secret123")
	id := app.createBooking(t, "Haircut")
	app.doJSON(t, http.MethodPost, "/auth/api/logout", nil)

	app.loginAsAdmin(t)
	resp, body := app.doJSON(t, http.MethodPut,
		fmt.Sprintf("/admin/api/bookings/%d/status", id),
		map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Booking status updated successfully", body["message"])
}

func TestAdminUpdateBookingStatusValidation(t *testing.T) {
	app := newTestApp(t)
	app.loginAsAdmin(t)

	resp, body := app.doJSON(t, http.MethodPut, "/admin/api/bookings/1/status", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Status is required", body["error"])

	resp, body = app.doJSON(t, http.MethodPut, "/admin/api/bookings/1/status",
		map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid status", body["error"])

	resp, body = app.doJSON(t, http.MethodPut, "/admin/api/bookings/99999/status",
		map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Booking not found", body["error"])
}

func TestAdminListUsers(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "dave", "dave@example.com", "secret123")
	app.doJSON(t, http.MethodPost, "/auth/api/logout", nil)

	app.loginAsAdmin(t)
	resp, body := app.doJSON(t, http.MethodGet, "/admin/api/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	users := body["users"].([]any)
	require.Len(t, users, 2)
	for _, u := range users {
		user := u.(map[string]any)
		assert.NotEmpty(t, user["username"])
		assert.NotEmpty(t, user["email"])
		assert.NotContains(t, user, "password_hash")
		// Self-registered users carry a real creation timestamp
		assert.NotEmpty(t, user["created_at"])
		assert.NotEqual(t, "0001-01-01T00:00:00Z", user["created_at"])
	}
}

func TestAdminListBookings(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "erin", "erin@example.com", "secret123")
	app.createBooking(t, "Haircut")
	app.doJSON(t, http.MethodPost, "/auth/api/logout", nil)

	app.loginAsAdmin(t)
	resp, body := app.doJSON(t, http.MethodGet, "/admin/api/bookings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	bookings := body["bookings"].([]any)
	require.Len(t, bookings, 1)
	booking := bookings[0].(map[string]any)
	assert.Equal(t, "erin", booking["username"])
	assert.Equal(t, "Haircut", booking["service_name"])
}
