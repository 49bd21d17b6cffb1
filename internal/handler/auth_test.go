package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.doJSON(t, http.MethodPost, "/auth/api/register", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User registered successfully", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@example.com", user["email"])

	// Registration logs the session in
	resp, body = app.doJSON(t, http.MethodGet, "/auth/api/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := body["user"].(map[string]any)
	assert.Equal(t, "alice", me["username"])
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing fields",
			payload:    map[string]any{"username": "bob"},
			wantStatus: http.StatusBadRequest,
			wantError:  "All fields are required",
		},
		{
			name: "short password",
			payload: map[string]any{
				"username": "bob", "email": "bob@example.com", "password": "12345",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Password must be at least 6 characters",
		},
		{
			name: "invalid email",
			payload: map[string]any{
				"username": "bob", "email": "not-an-email", "password": "secret123",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid email address",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := app.doJSON(t, http.MethodPost, "/auth/api/register", tt.payload)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "carol", "carol@example.com", "secret123")

	resp, body := app.doJSON(t, http.MethodPost, "/auth/api/register", map[string]any{
		"username": "carol2",
		"email":    "carol@example.com",
		"password": "secret456",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already registered", body["error"])
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "dave", "dave@example.com", "secret123")
	app.doJSON(t, http.MethodPost, "/auth/api/logout", nil)

	resp, body := app.doJSON(t, http.MethodPost, "/auth/api/login", map[string]any{
		"email":    "dave@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Login successful", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "dave", user["username"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "erin", "erin@example.com", "secret123")
	app.doJSON(t, http.MethodPost, "/auth/api/logout", nil)

	// Wrong password and unknown email produce the same message
	for _, payload := range []map[string]any{
		{"email": "erin@example.com", "password": "wrong-pass"},
		{"email": "ghost@example.com", "password": "secret123"},
	} {
		resp, body := app.doJSON(t, http.MethodPost, "/auth/api/login", payload)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid email or password", body["error"])
	}
}

func TestLoginMissingFields(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.doJSON(t, http.MethodPost, "/auth/api/login", map[string]any{
		"email": "someone@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email and password are required", body["error"])
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "frank", "frank@example.com", "secret123")

	resp, body := app.doJSON(t, http.MethodPost, "/auth/api/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out successfully", body["message"])

	// Session is gone
	resp, body = app.doJSON(t, http.MethodGet, "/auth/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated", body["error"])
}

func TestMeUnauthenticated(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.doJSON(t, http.MethodGet, "/auth/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated", body["error"])
}
