// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/bookery/internal/middleware"
	"github.com/olegiv/bookery/web"
)

// PageHandler serves the embedded HTML pages and the session-state
// redirects around them.
type PageHandler struct {
	sessionManager *scs.SessionManager
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(sm *scs.SessionManager) *PageHandler {
	return &PageHandler{sessionManager: sm}
}

func (h *PageHandler) loggedIn(r *http.Request) bool {
	return h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID) > 0
}

func servePage(w http.ResponseWriter, name string) {
	data, err := web.Templates.ReadFile("templates/" + name)
	if err != nil {
		slog.Error("missing embedded page", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, redirectMyBookings, http.StatusSeeOther)
		return
	}
	servePage(w, "index.html")
}

// Dashboard handles GET /dashboard.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !h.loggedIn(r) {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, redirectMyBookings, http.StatusSeeOther)
}

// RegisterPage handles GET /auth/register.
func (h *PageHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, redirectMyBookings, http.StatusSeeOther)
		return
	}
	servePage(w, "register.html")
}

// LoginPage handles GET /auth/login.
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, redirectMyBookings, http.StatusSeeOther)
		return
	}
	servePage(w, "login.html")
}

// BookingPage handles GET /booking/.
func (h *PageHandler) BookingPage(w http.ResponseWriter, _ *http.Request) {
	servePage(w, "booking.html")
}

// MyBookingsPage handles GET /booking/my-bookings.
func (h *PageHandler) MyBookingsPage(w http.ResponseWriter, _ *http.Request) {
	servePage(w, "my_bookings.html")
}

// AdminDashboardPage handles GET /admin/dashboard.
func (h *PageHandler) AdminDashboardPage(w http.ResponseWriter, _ *http.Request) {
	servePage(w, "admin_dashboard.html")
}
