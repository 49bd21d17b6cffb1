package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProtection() *LoginProtection {
	return NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
}

func TestAccountLockoutAfterMaxFailures(t *testing.T) {
	lp := newTestProtection()
	email := "victim@example.com"

	locked, _ := lp.IsAccountLocked(email)
	assert.False(t, locked)

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	nowLocked, duration := lp.RecordFailedAttempt(email)
	assert.True(t, nowLocked)
	assert.Equal(t, time.Minute, duration)

	locked, remaining := lp.IsAccountLocked(email)
	assert.True(t, locked)
	assert.Greater(t, remaining, time.Duration(0))
}

func TestSuccessfulLoginClearsFailures(t *testing.T) {
	lp := newTestProtection()
	email := "user@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	assert.Equal(t, 1, lp.GetRemainingAttempts(email))

	lp.RecordSuccessfulLogin(email)
	assert.Equal(t, 3, lp.GetRemainingAttempts(email))
}

func TestLockoutDurationDoubles(t *testing.T) {
	lp := newTestProtection()
	email := "repeat@example.com"

	var locked bool
	var duration time.Duration
	for i := 0; i < 3; i++ {
		locked, duration = lp.RecordFailedAttempt(email)
	}
	require.True(t, locked)
	assert.Equal(t, time.Minute, duration)

	// Second lockout doubles the duration
	for i := 0; i < 3; i++ {
		locked, duration = lp.RecordFailedAttempt(email)
	}
	require.True(t, locked)
	assert.Equal(t, 2*time.Minute, duration)
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit: 0.001,
		IPBurst:     2,
	})
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// GET requests bypass the limiter
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/api/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Burst allows the first POSTs, then the limiter kicks in
	for i := 0; i < 2; i++ {
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/api/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/api/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter(0.001, 1)
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/api/me", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/api/me", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
