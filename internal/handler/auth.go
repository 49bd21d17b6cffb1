// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/validator/v10"

	"github.com/olegiv/bookery/internal/middleware"
	"github.com/olegiv/bookery/internal/model"
	"github.com/olegiv/bookery/internal/service"
)

// AuthHandler handles the registration, login, logout and identity endpoints.
type AuthHandler struct {
	sessionManager  *scs.SessionManager
	accounts        *service.AccountService
	events          *service.EventService
	loginProtection *middleware.LoginProtection
	validate        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		sessionManager:  sm,
		accounts:        service.NewAccountService(db),
		events:          service.NewEventService(db),
		loginProtection: lp,
		validate:        validator.New(),
	}
}

// sessionUser is the identity payload returned by the auth endpoints.
type sessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// putSessionIdentity stores the user's identity in the session.
func (h *AuthHandler) putSessionIdentity(r *http.Request, user model.User) {
	ctx := r.Context()
	h.sessionManager.Put(ctx, middleware.SessionKeyUserID, user.ID)
	h.sessionManager.Put(ctx, middleware.SessionKeyUsername, user.Username)
	h.sessionManager.Put(ctx, middleware.SessionKeyEmail, user.Email)
	h.sessionManager.Put(ctx, middleware.SessionKeyRole, user.Role)
}

// Register handles POST /auth/api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSONBody(r, &req) {
		writeJSONError(w, http.StatusBadRequest, "No data provided")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if len(req.Password) < 6 {
		writeJSONError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeJSONError(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("registration failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	// New privilege level, new session token
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	h.putSessionIdentity(r, user)

	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User registered",
		&user.ID, middleware.GetClientIP(r), clientMetadata(r))

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user": sessionUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

// Login handles POST /auth/api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(r, &req) {
		writeJSONError(w, http.StatusBadRequest, "No data provided")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, _ := h.loginProtection.IsAccountLocked(req.Email); locked {
			writeJSONError(w, http.StatusTooManyRequests, "Too many failed attempts. Try again later")
			return
		}
	}

	user, err := h.accounts.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
		}
		if h.loginProtection != nil {
			h.loginProtection.RecordFailedAttempt(req.Email)
		}
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed",
			nil, middleware.GetClientIP(r), map[string]any{"email": req.Email})
		writeJSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(req.Email)
	}

	// Renew the token to defeat session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	h.putSessionIdentity(r, user)

	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in",
		&user.ID, middleware.GetClientIP(r), clientMetadata(r))

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user": sessionUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

// Logout handles POST /auth/api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	if userID > 0 {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out",
			&userID, middleware.GetClientIP(r), clientMetadata(r))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Logged out successfully",
	})
}

// Me handles GET /auth/api/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)
	if userID == 0 {
		writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": sessionUser{
			ID:       userID,
			Username: h.sessionManager.GetString(r.Context(), middleware.SessionKeyUsername),
			Email:    h.sessionManager.GetString(r.Context(), middleware.SessionKeyEmail),
		},
	})
}
