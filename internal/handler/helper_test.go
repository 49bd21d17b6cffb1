package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/bookery/internal/cache"
	"github.com/olegiv/bookery/internal/session"
	"github.com/olegiv/bookery/internal/testutil"
)

// testApp bundles a running test server with a cookie-aware client.
type testApp struct {
	db     *sql.DB
	server *httptest.Server
	client *http.Client
}

// newTestApp starts the full router against a temp database.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := session.New(db, true)

	router := NewRouter(RouterConfig{
		DB:             db,
		SessionManager: sm,
		StatsTTL:       time.Minute,
		IsDevelopment:  true,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{db: db, server: server, client: client}
}

// newTestAppWithCache starts the router with a memory cache wired in.
func newTestAppWithCache(t *testing.T) (*testApp, *cache.MemoryCache) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	c := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = c.Close() })

	sm := session.New(db, true)
	router := NewRouter(RouterConfig{
		DB:             db,
		SessionManager: sm,
		Cache:          c,
		StatsTTL:       time.Minute,
		IsDevelopment:  true,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{db: db, server: server, client: client}, c
}

// doJSON issues a request with a JSON body and decodes the JSON response.
func (a *testApp) doJSON(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	_ = resp.Body.Close()

	return resp, decoded
}

// get issues a plain GET without the JSON content type.
func (a *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()

	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp
}

// register creates an account through the API, leaving the session logged in.
func (a *testApp) register(t *testing.T, username, email, password string) {
	t.Helper()

	resp, _ := a.doJSON(t, http.MethodPost, "/auth/api/register", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// login signs in through the API.
func (a *testApp) login(t *testing.T, email, password string) {
	t.Helper()

	resp, _ := a.doJSON(t, http.MethodPost, "/auth/api/login", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// loginAsAdmin creates an admin account directly and signs in with it.
func (a *testApp) loginAsAdmin(t *testing.T) {
	t.Helper()

	testutil.CreateTestUser(t, a.db, "admin", "admin@test.local", "admin")
	a.login(t, "admin@test.local", "password123")
}

// createBooking posts a booking and returns its ID.
func (a *testApp) createBooking(t *testing.T, service string) int64 {
	t.Helper()

	resp, body := a.doJSON(t, http.MethodPost, "/booking/api/bookings", map[string]any{
		"service_name":   service,
		"booking_date":   "2026-12-24",
		"booking_time":   "10:30",
		"customer_name":  "Test Customer",
		"customer_email": "customer@example.com",
		"customer_phone": "555-0100",
		"notes":          "window seat please",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	id, ok := body["booking_id"].(float64)
	require.True(t, ok, "booking_id missing from response")
	return int64(id)
}
