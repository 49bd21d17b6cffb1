// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/bookery/internal/middleware"
	"github.com/olegiv/bookery/internal/model"
	"github.com/olegiv/bookery/internal/service"
	"github.com/olegiv/bookery/internal/store"
)

// notesSanitizer strips all HTML from free-text notes.
var notesSanitizer = bluemonday.StrictPolicy()

// BookingHandler handles the booking CRUD endpoints for end users.
type BookingHandler struct {
	queries *store.Queries
	events  *service.EventService
	stats   *service.StatsService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(db *sql.DB, stats *service.StatsService) *BookingHandler {
	return &BookingHandler{
		queries: store.New(db),
		events:  service.NewEventService(db),
		stats:   stats,
	}
}

// bookingResponse is a booking with notes flattened to a plain string.
type bookingResponse struct {
	model.Booking
	Notes    string `json:"notes"`
	Username string `json:"username,omitempty"`
}

func toBookingResponse(b model.Booking) bookingResponse {
	resp := bookingResponse{Booking: b}
	if b.Notes.Valid {
		resp.Notes = b.Notes.String
	}
	return resp
}

func toBookingResponses(bookings []model.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

type createBookingRequest struct {
	ServiceName   string `json:"service_name"`
	BookingDate   string `json:"booking_date"`
	BookingTime   string `json:"booking_time"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes"`
}

// Create handles POST /booking/api/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeJSONBody(r, &req) {
		writeJSONError(w, http.StatusBadRequest, "No data provided")
		return
	}

	if req.ServiceName == "" || req.BookingDate == "" || req.BookingTime == "" ||
		req.CustomerName == "" || req.CustomerEmail == "" || req.CustomerPhone == "" {
		writeJSONError(w, http.StatusBadRequest, "All required fields must be filled")
		return
	}

	if _, err := time.Parse(model.BookingDateFormat, req.BookingDate); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	userID := middleware.GetUserID(r)

	var notes sql.NullString
	if trimmed := strings.TrimSpace(notesSanitizer.Sanitize(req.Notes)); trimmed != "" {
		notes = sql.NullString{String: trimmed, Valid: true}
	}

	booking, err := h.queries.CreateBooking(r.Context(), store.CreateBookingParams{
		UserID:        userID,
		Reference:     uuid.NewString(),
		ServiceName:   req.ServiceName,
		BookingDate:   req.BookingDate,
		BookingTime:   req.BookingTime,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         notes,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		slog.Error("booking creation failed", "user_id", userID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	h.stats.Invalidate(r.Context())
	_ = h.events.LogBookingEvent(r.Context(), model.EventLevelInfo, "Booking created",
		&userID, middleware.GetClientIP(r), map[string]any{
			"booking_id": booking.ID,
			"reference":  booking.Reference,
			"service":    booking.ServiceName,
		})

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Booking created successfully",
		"booking_id": booking.ID,
		"reference":  booking.Reference,
	})
}

// ListOwn handles GET /booking/api/bookings.
func (h *BookingHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	bookings, err := h.queries.ListBookingsByUser(r.Context(), userID)
	if err != nil {
		slog.Error("listing bookings failed", "user_id", userID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": toBookingResponses(bookings),
	})
}

// getOwnedBooking loads a booking and enforces ownership. Writes the error
// response and returns false when the booking is missing or foreign.
func (h *BookingHandler) getOwnedBooking(w http.ResponseWriter, r *http.Request) (model.Booking, bool) {
	id, ok := idParam(r)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "Booking not found")
		return model.Booking{}, false
	}

	booking, err := h.queries.GetBookingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Booking not found")
		} else {
			slog.Error("loading booking failed", "booking_id", id, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to fetch booking")
		}
		return model.Booking{}, false
	}

	if booking.UserID != middleware.GetUserID(r) {
		writeJSONError(w, http.StatusForbidden, "Unauthorized access")
		return model.Booking{}, false
	}

	return booking, true
}

// Get handles GET /booking/api/bookings/{id}.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.getOwnedBooking(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"booking": toBookingResponse(booking),
	})
}

type updateStatusRequest struct {
	Status *string `json:"status"`
}

// UpdateStatus handles PATCH /booking/api/bookings/{id}/status.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decodeJSONBody(r, &req) || req.Status == nil {
		writeJSONError(w, http.StatusBadRequest, "Status is required")
		return
	}

	status := *req.Status
	if !model.IsValidStatus(status) {
		writeJSONError(w, http.StatusBadRequest,
			"Invalid status. Must be one of: "+strings.Join(model.ValidStatuses(), ", "))
		return
	}

	booking, ok := h.getOwnedBooking(w, r)
	if !ok {
		return
	}

	if _, err := h.queries.UpdateBookingStatus(r.Context(), store.UpdateBookingStatusParams{
		ID:        booking.ID,
		Status:    status,
		UpdatedAt: time.Now(),
	}); err != nil {
		slog.Error("booking status update failed", "booking_id", booking.ID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update booking status")
		return
	}

	userID := middleware.GetUserID(r)
	h.stats.Invalidate(r.Context())
	_ = h.events.LogBookingEvent(r.Context(), model.EventLevelInfo, "Booking status updated",
		&userID, middleware.GetClientIP(r), map[string]any{
			"booking_id": booking.ID,
			"status":     status,
		})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Booking status updated successfully",
	})
}

// Delete handles DELETE /booking/api/bookings/{id}.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.getOwnedBooking(w, r)
	if !ok {
		return
	}

	if _, err := h.queries.DeleteBooking(r.Context(), booking.ID); err != nil {
		slog.Error("booking deletion failed", "booking_id", booking.ID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to delete booking")
		return
	}

	userID := middleware.GetUserID(r)
	h.stats.Invalidate(r.Context())
	_ = h.events.LogBookingEvent(r.Context(), model.EventLevelInfo, "Booking deleted",
		&userID, middleware.GetClientIP(r), map[string]any{
			"booking_id": booking.ID,
			"reference":  booking.Reference,
		})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Booking deleted successfully",
	})
}
