package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/service"
)

// createBookingRequest is the body for POST /bookings. The acting traveler
// is taken from the bearer token, never from the body.
type createBookingRequest struct {
	TripID         uuid.UUID         `json:"trip_id"`
	ScheduleID     *uuid.UUID        `json:"schedule_id"`
	NumberOfPeople int               `json:"number_of_people"`
	PaymentMethod  string            `json:"payment_method"`
	Travelers      []domain.Traveler `json:"travelers"`
}

// statusResponse wraps a booking after a state transition. Warning is set
// when a best-effort side effect failed but the transition stands.
type statusResponse struct {
	Booking domain.Booking `json:"booking"`
	Warning string         `json:"warning,omitempty"`
}

// CreateBooking handles POST /bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req createBookingRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	booking, err := s.bookings.Create(r.Context(), service.CreateBookingInput{
		TripID:         req.TripID,
		ScheduleID:     req.ScheduleID,
		UserID:         userID,
		NumberOfPeople: req.NumberOfPeople,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
		Travelers:      req.Travelers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /bookings/{id}.
// A booking is visible to its owner and to staff; everyone else gets 404
// so the endpoint does not leak which ids exist.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	booking, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if booking.UserID != userID {
		admin, err := s.authz.IsAdmin(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !admin {
			writeError(w, domain.ErrNotFound)
			return
		}
	}

	writeJSON(w, http.StatusOK, booking)
}

// ListMyBookings handles GET /my/bookings.
func (s *Server) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}

	bookings, err := s.bookings.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": bookings})
}

// ListTripBookings handles GET /trips/{tripID}/bookings. Staff only.
func (s *Server) ListTripBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := s.authz.RequireAdmin(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	tripID, err := uuidParam(r, "tripID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	bookings, err := s.bookings.ListByTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": bookings})
}

// ConfirmBooking handles POST /bookings/{id}/confirm. Staff only.
func (s *Server) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.status.Confirm)
}

// RejectBooking handles POST /bookings/{id}/reject. Staff only.
func (s *Server) RejectBooking(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.status.Reject)
}

// CompleteBooking handles POST /bookings/{id}/complete. Staff only.
func (s *Server) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.status.Complete)
}

// transition runs one booking state transition. The staff check lives in the
// status service so it cannot be bypassed by a new route.
func (s *Server) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error),
) {
	actorID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	booking, warning, err := fn(r.Context(), actorID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Booking: booking, Warning: warning})
}
