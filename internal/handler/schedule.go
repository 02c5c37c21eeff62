package handler

import (
	"net/http"
	"time"

	"github.com/asandov/tripmarket/internal/domain"
)

// createScheduleRequest is the body for POST /trips/{tripID}/schedules.
// AvailableSeats of zero means "open at the trip's full capacity".
type createScheduleRequest struct {
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	AvailableSeats int       `json:"available_seats"`
	IsActive       *bool     `json:"is_active"`
}

// seatCount is the body for GET /schedules/{id}/seats and each SSE event.
type seatCount struct {
	ScheduleID     string `json:"schedule_id"`
	AvailableSeats int    `json:"available_seats"`
}

// CreateSchedule handles POST /trips/{tripID}/schedules. Staff only.
func (s *Server) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := s.authz.RequireAdmin(r.Context(), actorID); err != nil {
		writeError(w, err)
		return
	}

	tripID, err := uuidParam(r, "tripID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var req createScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	sched := domain.Schedule{
		TripID:         tripID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AvailableSeats: req.AvailableSeats,
		IsActive:       true,
	}
	if req.IsActive != nil {
		sched.IsActive = *req.IsActive
	}

	created, err := s.schedules.Create(r.Context(), sched)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeactivateSchedule handles DELETE /schedules/{id}. Staff only.
// The schedule row stays; it is only taken off sale.
func (s *Server) DeactivateSchedule(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := s.authz.RequireAdmin(r.Context(), actorID); err != nil {
		writeError(w, err)
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.schedules.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ListSchedules handles GET /trips/{tripID}/schedules.
func (s *Server) ListSchedules(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuidParam(r, "tripID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	schedules, err := s.schedules.ListByTripID(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	if schedules == nil {
		schedules = []domain.Schedule{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": schedules})
}

// GetSeats handles GET /schedules/{id}/seats, a point read of the live
// seat counter for clients that do not hold an SSE stream open.
func (s *Server) GetSeats(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	sched, err := s.schedules.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seatCount{
		ScheduleID:     sched.ID.String(),
		AvailableSeats: sched.AvailableSeats,
	})
}
