// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/bookery/internal/middleware"
	"github.com/olegiv/bookery/internal/model"
	"github.com/olegiv/bookery/internal/service"
	"github.com/olegiv/bookery/internal/store"
)

// AdminHandler handles the admin dashboard API.
type AdminHandler struct {
	queries *store.Queries
	events  *service.EventService
	stats   *service.StatsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, stats *service.StatsService) *AdminHandler {
	return &AdminHandler{
		queries: store.New(db),
		events:  service.NewEventService(db),
		stats:   stats,
	}
}

// DashboardStats handles GET /admin/api/dashboard-stats.
func (h *AdminHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.DashboardStats(r.Context())
	if err != nil {
		slog.Error("dashboard stats failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch dashboard statistics")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// UpdateBookingStatus handles PUT /admin/api/bookings/{id}/status.
// Unlike the user-facing endpoint, admins may update any booking.
func (h *AdminHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decodeJSONBody(r, &req) || req.Status == nil || *req.Status == "" {
		writeJSONError(w, http.StatusBadRequest, "Status is required")
		return
	}

	status := *req.Status
	if !model.IsValidStatus(status) {
		writeJSONError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	id, ok := idParam(r)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "Booking not found")
		return
	}

	rows, err := h.queries.UpdateBookingStatus(r.Context(), store.UpdateBookingStatusParams{
		ID:        id,
		Status:    status,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("admin booking status update failed", "booking_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update booking status")
		return
	}
	if rows == 0 {
		writeJSONError(w, http.StatusNotFound, "Booking not found")
		return
	}

	adminID := middleware.GetUserID(r)
	h.stats.Invalidate(r.Context())
	_ = h.events.LogAdminEvent(r.Context(), model.EventLevelInfo, "Admin updated booking status",
		&adminID, middleware.GetClientIP(r), map[string]any{
			"booking_id": id,
			"status":     status,
		})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Booking status updated successfully",
	})
}

// ListUsers handles GET /admin/api/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		slog.Error("listing users failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	if users == nil {
		users = []model.User{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
	})
}

// ListBookings handles GET /admin/api/bookings.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.queries.ListBookingsWithOwner(r.Context())
	if err != nil {
		slog.Error("listing bookings failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp := toBookingResponse(b.Booking)
		if b.Username.Valid {
			resp.Username = b.Username.String
		}
		out = append(out, resp)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": out,
	})
}
