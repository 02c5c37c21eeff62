package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

// ScheduleService implements business logic for trip schedules and is the
// only path through which seats are reserved or released. Both operations
// publish the new counter to the SeatWatcher after the store write, keeping
// live displays current without letting them near the transaction.
type ScheduleService struct {
	trips     repo.TripRepo
	schedules repo.ScheduleRepo
	watcher   *SeatWatcher
}

// NewScheduleService constructs a ScheduleService backed by the provided
// repos. watcher may be nil when no live display is wired (e.g. in tests).
func NewScheduleService(trips repo.TripRepo, schedules repo.ScheduleRepo, watcher *SeatWatcher) *ScheduleService {
	return &ScheduleService{trips: trips, schedules: schedules, watcher: watcher}
}

// Create validates and persists a new departure for a trip.
// A zero AvailableSeats defaults to the trip's full capacity.
// Returns domain.ErrNotFound if the trip does not exist,
// domain.ErrValidation if dates or seat counts violate business rules.
func (s *ScheduleService) Create(ctx context.Context, sched domain.Schedule) (domain.Schedule, error) {
	trip, err := s.trips.GetByID(ctx, sched.TripID)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("service.ScheduleService.Create: %w", err)
	}

	if sched.AvailableSeats == 0 {
		sched.AvailableSeats = trip.MaxSeats
	}
	if err := validateSchedule(sched, trip); err != nil {
		return domain.Schedule{}, err
	}

	result, err := s.schedules.Create(ctx, sched)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("service.ScheduleService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single schedule by ID.
func (s *ScheduleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	result, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("service.ScheduleService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns all schedules for a trip ordered by start date.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ScheduleService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Schedule, error) {
	schedules, err := s.schedules.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.ListByTripID: %w", err)
	}
	if schedules == nil {
		return []domain.Schedule{}, nil
	}
	return schedules, nil
}

// Deactivate takes a departure off sale. Reserved seats on existing bookings
// are untouched; only new bookings are blocked.
func (s *ScheduleService) Deactivate(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	result, err := s.schedules.Deactivate(ctx, id)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("service.ScheduleService.Deactivate: %w", err)
	}
	return result, nil
}

// Reserve atomically takes count seats from the schedule and publishes the
// new counter. Returns domain.ErrInsufficientSeats when the schedule cannot
// satisfy the request — a user-facing rejection, never retried here.
func (s *ScheduleService) Reserve(ctx context.Context, id uuid.UUID, count int) (int, error) {
	if count < 1 {
		return 0, fmt.Errorf("%w: seat count must be at least 1", domain.ErrValidation)
	}
	remaining, err := s.schedules.Reserve(ctx, id, count)
	if err != nil {
		return 0, fmt.Errorf("service.ScheduleService.Reserve: %w", err)
	}
	if s.watcher != nil {
		s.watcher.Publish(id, remaining)
	}
	return remaining, nil
}

// Release returns count seats to the schedule (clamped to trip capacity)
// and publishes the new counter. Used for compensation after a failed
// booking persist and for seat return on rejection.
func (s *ScheduleService) Release(ctx context.Context, id uuid.UUID, count int) (int, error) {
	if count < 1 {
		return 0, fmt.Errorf("%w: seat count must be at least 1", domain.ErrValidation)
	}
	remaining, err := s.schedules.Release(ctx, id, count)
	if err != nil {
		return 0, fmt.Errorf("service.ScheduleService.Release: %w", err)
	}
	if s.watcher != nil {
		s.watcher.Publish(id, remaining)
	}
	return remaining, nil
}

// Watcher exposes the seat watcher for read-only subscribers (SSE handler).
func (s *ScheduleService) Watcher() *SeatWatcher {
	return s.watcher
}

// validateSchedule enforces the rules for a new departure:
//   - end date must not be before start date;
//   - start date must not be in the past;
//   - seat count must fit within the trip's capacity.
func validateSchedule(sched domain.Schedule, trip domain.Trip) error {
	if sched.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", domain.ErrValidation)
	}
	if sched.EndDate.Before(sched.StartDate) {
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if sched.StartDate.Before(today) {
		return fmt.Errorf("%w: start date must not be in the past", domain.ErrValidation)
	}
	if sched.AvailableSeats < 0 || sched.AvailableSeats > trip.MaxSeats {
		return fmt.Errorf("%w: available seats must be between 0 and %d", domain.ErrValidation, trip.MaxSeats)
	}
	return nil
}
