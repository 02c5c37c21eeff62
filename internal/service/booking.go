package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

// Inventory is the seat-counter dependency of the booking ledger, satisfied
// by *ScheduleService. Defined here, in the consumer package, so the ledger
// can be unit-tested without a database.
type Inventory interface {
	Reserve(ctx context.Context, scheduleID uuid.UUID, count int) (int, error)
	Release(ctx context.Context, scheduleID uuid.UUID, count int) (int, error)
}

// Fanout is the admin-notification dependency of the booking ledger,
// satisfied by *FanoutService.
type Fanout interface {
	BookingCreated(ctx context.Context, booking domain.Booking, trip domain.Trip) (int, error)
}

// CreateBookingInput is a traveler's booking intent as received from the
// HTTP layer, before validation.
type CreateBookingInput struct {
	TripID         uuid.UUID
	ScheduleID     *uuid.UUID // nil for legacy trips with only an inline date
	UserID         uuid.UUID
	NumberOfPeople int
	PaymentMethod  domain.PaymentMethod
	Travelers      []domain.Traveler
}

// BookingService is the booking ledger: it validates a booking intent,
// reserves seats, persists the booking, and fans out staff notifications.
// Reservation and persistence are two steps; a failed persist triggers a
// compensating release so seats never leak.
type BookingService struct {
	trips     repo.TripRepo
	schedules repo.ScheduleRepo
	bookings  repo.BookingRepo
	inventory Inventory
	fanout    Fanout
	log       *slog.Logger
}

// NewBookingService constructs a BookingService backed by the provided
// repos and collaborators.
func NewBookingService(
	trips repo.TripRepo,
	schedules repo.ScheduleRepo,
	bookings repo.BookingRepo,
	inventory Inventory,
	fanout Fanout,
	log *slog.Logger,
) *BookingService {
	if log == nil {
		log = slog.Default()
	}
	return &BookingService{
		trips:     trips,
		schedules: schedules,
		bookings:  bookings,
		inventory: inventory,
		fanout:    fanout,
		log:       log,
	}
}

// Create validates and persists a new booking.
//
// Order of operations matters: all validation happens before any write, the
// seat reservation happens before the booking row exists, and a persist
// failure after a successful reservation releases the seats again. The
// admin fanout at the end is best-effort — its failure is logged for
// operator follow-up but never fails the booking.
//
// Returns domain.ErrValidation, domain.ErrInsufficientSeats, or
// domain.ErrNotFound as appropriate; any of these means nothing was written
// (or everything written was compensated).
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	trip, err := s.trips.GetByID(ctx, in.TripID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	if err := validateBookingInput(in); err != nil {
		return domain.Booking{}, err
	}

	if in.ScheduleID != nil {
		if err := s.checkSchedule(ctx, trip, *in.ScheduleID); err != nil {
			return domain.Booking{}, err
		}
	}

	booking := domain.Booking{
		Reference:        domain.NewReference(),
		TripID:           in.TripID,
		ScheduleID:       in.ScheduleID,
		UserID:           in.UserID,
		NumberOfPeople:   in.NumberOfPeople,
		TotalAmount:      trip.PricePerPerson * float64(in.NumberOfPeople),
		PaymentMethod:    in.PaymentMethod,
		PaymentStatus:    paymentStatusFor(in.PaymentMethod),
		BookingStatus:    domain.BookingPending,
		AttendanceStatus: domain.AttendancePending,
		Travelers:        in.Travelers,
	}

	if in.ScheduleID != nil {
		if _, err := s.inventory.Reserve(ctx, *in.ScheduleID, in.NumberOfPeople); err != nil {
			return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
		}
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		// Compensating action: give the seats back so they do not leak.
		if in.ScheduleID != nil {
			if _, relErr := s.inventory.Release(ctx, *in.ScheduleID, in.NumberOfPeople); relErr != nil {
				s.log.Error("seat release after failed booking persist",
					"schedule_id", *in.ScheduleID,
					"count", in.NumberOfPeople,
					"error", relErr,
				)
			}
		}
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	if _, err := s.fanout.BookingCreated(ctx, created, trip); err != nil {
		// Best-effort side effect: the booking stands, an operator follows up.
		s.log.Warn("booking fanout failed",
			"booking_id", created.ID,
			"error", err,
		)
	}

	return created, nil
}

// GetByID returns a single booking by ID.
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	result, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns all bookings owned by userID, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByUser: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// ListByTrip returns all bookings referencing tripID, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByTrip: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// checkSchedule verifies the schedule belongs to the trip, is active, and
// has not already departed. Ran before any write.
func (s *BookingService) checkSchedule(ctx context.Context, trip domain.Trip, scheduleID uuid.UUID) error {
	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("service.BookingService.Create: schedule: %w", err)
	}
	if sched.TripID != trip.ID {
		return fmt.Errorf("%w: schedule does not belong to this trip", domain.ErrValidation)
	}
	if !sched.IsActive {
		return fmt.Errorf("%w: schedule is not active", domain.ErrValidation)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if sched.StartDate.Before(today) {
		return fmt.Errorf("%w: schedule has already departed", domain.ErrValidation)
	}
	return nil
}

// validateBookingInput enforces the ledger's rules before any write:
//   - number_of_people >= 1 and equal to the traveler list length;
//   - every traveler has name, age, and gender;
//   - the primary traveler (index 0) additionally has phone and national ID;
//   - the payment method is one of the known values.
func validateBookingInput(in CreateBookingInput) error {
	if in.NumberOfPeople < 1 {
		return fmt.Errorf("%w: number of people must be at least 1", domain.ErrValidation)
	}
	if len(in.Travelers) != in.NumberOfPeople {
		return fmt.Errorf("%w: traveler list length must match number of people", domain.ErrValidation)
	}
	if in.PaymentMethod != domain.PaymentCOD && in.PaymentMethod != domain.PaymentOnline {
		return fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, in.PaymentMethod)
	}

	for i, tr := range in.Travelers {
		if strings.TrimSpace(tr.Name) == "" {
			return fmt.Errorf("%w: traveler %d: name is required", domain.ErrValidation, i)
		}
		if tr.Age < 1 {
			return fmt.Errorf("%w: traveler %d: age is required", domain.ErrValidation, i)
		}
		if strings.TrimSpace(tr.Gender) == "" {
			return fmt.Errorf("%w: traveler %d: gender is required", domain.ErrValidation, i)
		}
	}

	primary := in.Travelers[0]
	if strings.TrimSpace(primary.Phone) == "" {
		return fmt.Errorf("%w: primary traveler: phone is required", domain.ErrValidation)
	}
	if strings.TrimSpace(primary.NationalID) == "" {
		return fmt.Errorf("%w: primary traveler: national ID is required", domain.ErrValidation)
	}

	return nil
}

// paymentStatusFor derives the initial payment status from the method:
// cash on delivery stays pending until settled, online is already paid.
func paymentStatusFor(m domain.PaymentMethod) domain.PaymentStatus {
	if m == domain.PaymentOnline {
		return domain.PaymentStatusConfirmed
	}
	return domain.PaymentStatusPending
}
