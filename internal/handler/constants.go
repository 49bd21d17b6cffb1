// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot      = "/"
	RouteParamID   = "/{id}"
	RouteDashboard = "/dashboard"

	// Auth area
	RouteRegister = "/register"
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteMe       = "/me"

	// Booking area
	RouteBookings         = "/bookings"
	RouteBookingsID       = RouteBookings + RouteParamID
	RouteBookingsIDStatus = RouteBookingsID + "/status"
	RouteMyBookings       = "/my-bookings"

	// Admin area
	RouteDashboardStats = "/dashboard-stats"
	RouteUsers          = "/users"
)

// Redirect targets used by the page handlers.
const (
	redirectLogin      = "/auth/login"
	redirectMyBookings = "/booking/my-bookings"
	redirectAdmin      = "/admin/dashboard"
)
