// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/bookery/internal/cache"
	"github.com/olegiv/bookery/internal/middleware"
	"github.com/olegiv/bookery/internal/service"
)

// RouterConfig carries the dependencies for assembling the HTTP router.
type RouterConfig struct {
	DB             *sql.DB
	SessionManager *scs.SessionManager

	// Cache backs the dashboard statistics; nil disables caching.
	Cache    cache.Cacher
	StatsTTL time.Duration

	// LoginProtection guards the login endpoint; nil disables it.
	LoginProtection *middleware.LoginProtection

	// AuthRateLimiter throttles the auth API per IP; nil disables it.
	AuthRateLimiter *middleware.GlobalRateLimiter

	// CSRFKey enables Fetch-metadata CSRF protection when set.
	CSRFKey []byte

	IsDevelopment bool
}

// NewRouter assembles the full application router.
func NewRouter(cfg RouterConfig) http.Handler {
	statsService := service.NewStatsService(cfg.DB, cfg.Cache, cfg.StatsTTL)

	authHandler := NewAuthHandler(cfg.DB, cfg.SessionManager, cfg.LoginProtection)
	bookingHandler := NewBookingHandler(cfg.DB, statsService)
	adminHandler := NewAdminHandler(cfg.DB, statsService)
	pageHandler := NewPageHandler(cfg.SessionManager)

	var pinger Pinger
	if p, ok := cfg.Cache.(Pinger); ok {
		pinger = p
	}
	healthHandler := NewHealthHandler(cfg.DB, cfg.SessionManager, pinger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))
	r.Use(cfg.SessionManager.LoadAndSave)
	if len(cfg.CSRFKey) > 0 {
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(cfg.CSRFKey, cfg.IsDevelopment)))
	}
	r.Use(middleware.LoadUser(cfg.SessionManager, cfg.DB))

	// Health checks
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Public pages
	r.Get(RouteRoot, pageHandler.Home)
	r.Get(RouteDashboard, pageHandler.Dashboard)

	// Auth area
	r.Route("/auth", func(r chi.Router) {
		r.Get(RouteRegister, pageHandler.RegisterPage)
		r.Get(RouteLogin, pageHandler.LoginPage)

		r.Route("/api", func(r chi.Router) {
			if cfg.AuthRateLimiter != nil {
				r.Use(cfg.AuthRateLimiter.Middleware())
			}
			r.Post(RouteRegister, authHandler.Register)
			if cfg.LoginProtection != nil {
				r.With(cfg.LoginProtection.Middleware()).Post(RouteLogin, authHandler.Login)
			} else {
				r.Post(RouteLogin, authHandler.Login)
			}
			r.Post(RouteLogout, authHandler.Logout)
			r.Get(RouteMe, authHandler.Me)
		})
	})

	// Booking area, any authenticated user
	r.Route("/booking", func(r chi.Router) {
		r.Use(middleware.RequireAuth())

		r.Get(RouteRoot, pageHandler.BookingPage)
		r.Get(RouteMyBookings, pageHandler.MyBookingsPage)

		r.Route("/api", func(r chi.Router) {
			r.Post(RouteBookings, bookingHandler.Create)
			r.Get(RouteBookings, bookingHandler.ListOwn)
			r.Get(RouteBookingsID, bookingHandler.Get)
			r.Patch(RouteBookingsIDStatus, bookingHandler.UpdateStatus)
			r.Delete(RouteBookingsID, bookingHandler.Delete)
		})
	})

	// Admin area
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin())

		r.Get(RouteDashboard, pageHandler.AdminDashboardPage)

		r.Route("/api", func(r chi.Router) {
			r.Get(RouteDashboardStats, adminHandler.DashboardStats)
			r.Put(RouteBookingsIDStatus, adminHandler.UpdateBookingStatus)
			r.Get(RouteUsers, adminHandler.ListUsers)
			r.Get(RouteBookings, adminHandler.ListBookings)
		})
	})

	return r
}
