package handler

import (
	"net/http"
	"time"

	"github.com/asandov/tripmarket/internal/domain"
)

// createTripRequest is the body for POST /trips. FirstDeparture optionally
// seeds the trip with its first schedule, opened at full capacity.
type createTripRequest struct {
	Title          string                 `json:"title"`
	Location       string                 `json:"location"`
	PricePerPerson float64                `json:"price_per_person"`
	DurationDays   int                    `json:"duration_days"`
	MaxSeats       int                    `json:"max_seats"`
	IsActive       *bool                  `json:"is_active"`
	FirstDeparture *firstDepartureRequest `json:"first_departure"`
}

type firstDepartureRequest struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// paginatedTrips is the body for GET /trips.
type paginatedTrips struct {
	Data       []domain.Trip `json:"data"`
	Pagination pagination    `json:"pagination"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CreateTrip handles POST /trips. Staff only.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := s.authz.RequireAdmin(r.Context(), actorID); err != nil {
		writeError(w, err)
		return
	}

	var req createTripRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	trip := domain.Trip{
		Title:          req.Title,
		Location:       req.Location,
		PricePerPerson: req.PricePerPerson,
		DurationDays:   req.DurationDays,
		MaxSeats:       req.MaxSeats,
		IsActive:       true,
	}
	if req.IsActive != nil {
		trip.IsActive = *req.IsActive
	}

	var first *domain.Schedule
	if req.FirstDeparture != nil {
		first = &domain.Schedule{
			StartDate: req.FirstDeparture.StartDate,
			EndDate:   req.FirstDeparture.EndDate,
			IsActive:  true,
		}
	}

	created, err := s.trips.Create(r.Context(), trip, first)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := paginationFrom(r)
	trips, total, err := s.trips.ListActive(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	writeJSON(w, http.StatusOK, paginatedTrips{
		Data: trips,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /trips/{tripID}. Staff only.
// Edits never touch existing bookings or schedule seat counters.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(r)
	if !ok {
		unauthorized(w)
		return
	}
	if err := s.authz.RequireAdmin(r.Context(), actorID); err != nil {
		writeError(w, err)
		return
	}

	id, err := uuidParam(r, "tripID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var req createTripRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	trip := domain.Trip{
		ID:             id,
		Title:          req.Title,
		Location:       req.Location,
		PricePerPerson: req.PricePerPerson,
		DurationDays:   req.DurationDays,
		MaxSeats:       req.MaxSeats,
		IsActive:       true,
	}
	if req.IsActive != nil {
		trip.IsActive = *req.IsActive
	}

	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
