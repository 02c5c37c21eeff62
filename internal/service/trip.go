// Package service contains the business logic for the trip-booking API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

// TripService implements business logic for Trip operations.
// It holds the schedule repo as well because publishing a trip with a first
// departure date auto-creates that departure's schedule.
type TripService struct {
	trips     repo.TripRepo
	schedules repo.ScheduleRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, schedules repo.ScheduleRepo) *TripService {
	return &TripService{trips: trips, schedules: schedules}
}

// Create validates and persists a new trip. When firstDeparture is non-nil
// and the trip is active, one schedule is auto-created for that date range
// with the trip's full capacity.
func (s *TripService) Create(ctx context.Context, trip domain.Trip, firstDeparture *domain.Schedule) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	// The first departure follows the same rules as POST /schedules, and
	// is checked before any write so a bad date range leaves nothing behind.
	var sched *domain.Schedule
	if firstDeparture != nil && trip.IsActive {
		fd := *firstDeparture
		fd.IsActive = true
		if fd.AvailableSeats == 0 {
			fd.AvailableSeats = trip.MaxSeats
		}
		if err := validateSchedule(fd, trip); err != nil {
			return domain.Trip{}, err
		}
		sched = &fd
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	if sched != nil {
		sched.TripID = created.ID
		if _, err := s.schedules.Create(ctx, *sched); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: first departure: %w", err)
		}
	}

	return created, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// ListActive returns a page of active trips plus the total active count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListActive(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListActive(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListActive: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and updates an existing trip. Committed bookings are
// never touched by a trip edit.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// validateTrip enforces business rules common to both Create and Update.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if trip.MaxSeats < 1 {
		return fmt.Errorf("%w: max seats must be at least 1", domain.ErrValidation)
	}
	if trip.PricePerPerson < 0 {
		return fmt.Errorf("%w: price per person must not be negative", domain.ErrValidation)
	}
	if trip.DurationDays < 1 {
		return fmt.Errorf("%w: duration must be at least 1 day", domain.ErrValidation)
	}
	return nil
}
