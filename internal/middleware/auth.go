// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/bookery/internal/model"
	"github.com/olegiv/bookery/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser is the context key for the authenticated user.
const ContextKeyUser ContextKey = "user"

// Session keys for the authenticated user's identity. Declared here so the
// guards and the handlers that populate the session share one definition.
const (
	// SessionKeyUserID is the session key for storing the authenticated user ID.
	SessionKeyUserID = "user_id"
	// SessionKeyUsername is the session key for the username.
	SessionKeyUsername = "username"
	// SessionKeyEmail is the session key for the email address.
	SessionKeyEmail = "email"
	// SessionKeyRole is the session key for the role.
	SessionKeyRole = "role"
)

// Redirect targets used by the guards for browser navigation requests.
const (
	RedirectLogin      = "/auth/login"
	RedirectMyBookings = "/booking/my-bookings"
	RedirectAdmin      = "/admin/dashboard"
)

// IsAPIRequest classifies a request as API-style rather than browser
// navigation: either the request declares a JSON content type or its path
// contains the reserved /api/ segment. The classification only selects the
// response shape; the checks themselves apply either way.
func IsAPIRequest(r *http.Request) bool {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.Contains(r.URL.Path, "/api/")
}

// writeAPIError writes a JSON error response in the API error shape.
func writeAPIError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// denyUnauthenticated responds 401 for API requests and redirects browser
// navigation to the login page.
func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if IsAPIRequest(r) {
		writeAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	http.Redirect(w, r, RedirectLogin, http.StatusSeeOther)
}

// LoadUser creates middleware that resolves the session's user ID into a
// typed context value. Requests without a session pass through untouched; a
// session pointing at a missing user is destroyed.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				// Stale session: the user no longer exists
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
// Safe to use in logging where a zero-value is acceptable.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// RequireAuth creates middleware that requires an authenticated session.
// Must be applied after LoadUser.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r) == nil {
				denyUnauthenticated(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that requires an authenticated session with
// the admin role. Non-admins get 403 on API requests and a redirect to their
// bookings page on browser navigation.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				denyUnauthenticated(w, r)
				return
			}

			if !user.IsAdmin() {
				slog.Warn("admin access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"remote_addr", r.RemoteAddr,
				)
				if IsAPIRequest(r) {
					writeAPIError(w, http.StatusForbidden, "Admin access required")
					return
				}
				http.Redirect(w, r, RedirectMyBookings, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser creates middleware that requires an authenticated session with
// a non-admin role. Admins get 403 on API requests and a redirect to the
// admin dashboard on browser navigation.
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				denyUnauthenticated(w, r)
				return
			}

			if user.IsAdmin() {
				if IsAPIRequest(r) {
					writeAPIError(w, http.StatusForbidden, "User access only")
					return
				}
				http.Redirect(w, r, RedirectAdmin, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
