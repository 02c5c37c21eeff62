package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

// StatusService drives the staff-facing booking lifecycle:
// pending -> confirmed | rejected, confirmed -> completed.
// The transition itself is the primary operation; owner notifications and
// the confirmation email are best-effort side effects that never revert it.
type StatusService struct {
	bookings      repo.BookingRepo
	trips         repo.TripRepo
	schedules     repo.ScheduleRepo
	users         repo.UserRepo
	notifications repo.NotificationRepo
	inventory     Inventory
	authz         *Authorizer
	mailer        Mailer
	log           *slog.Logger
}

// NewStatusService constructs a StatusService backed by the provided repos
// and collaborators.
func NewStatusService(
	bookings repo.BookingRepo,
	trips repo.TripRepo,
	schedules repo.ScheduleRepo,
	users repo.UserRepo,
	notifications repo.NotificationRepo,
	inventory Inventory,
	authz *Authorizer,
	mailer Mailer,
	log *slog.Logger,
) *StatusService {
	if log == nil {
		log = slog.Default()
	}
	return &StatusService{
		bookings:      bookings,
		trips:         trips,
		schedules:     schedules,
		users:         users,
		notifications: notifications,
		inventory:     inventory,
		authz:         authz,
		mailer:        mailer,
		log:           log,
	}
}

// Confirm moves a pending booking to confirmed, notifies the owner, and
// dispatches the confirmation email. The returned warning is non-empty when
// a best-effort side effect failed; the transition stands regardless.
// Returns domain.ErrForbidden unless actorID is staff,
// domain.ErrInvalidTransition if the booking is not pending.
func (s *StatusService) Confirm(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return domain.Booking{}, "", fmt.Errorf("service.StatusService.Confirm: %w", err)
	}

	booking, err := s.transition(ctx, bookingID, domain.BookingPending, domain.BookingConfirmed)
	if err != nil {
		return domain.Booking{}, "", fmt.Errorf("service.StatusService.Confirm: %w", err)
	}

	s.notifyOwner(ctx, booking, "Booking Approved",
		fmt.Sprintf("Your booking %s has been approved.", booking.Reference))

	warning := ""
	if err := s.dispatchConfirmation(ctx, booking); err != nil {
		// Dispatch failure is reported to the staff actor, never rolled back.
		s.log.Warn("confirmation email dispatch failed",
			"booking_id", booking.ID,
			"error", err,
		)
		warning = "booking confirmed, but the confirmation email could not be sent"
	}

	return booking, warning, nil
}

// Reject moves a pending booking to rejected, returns its reserved seats to
// the schedule, and notifies the owner. The release is clamped at the store,
// so rejecting twice (impossible through the state machine anyway) could
// never inflate inventory.
func (s *StatusService) Reject(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return domain.Booking{}, "", fmt.Errorf("service.StatusService.Reject: %w", err)
	}

	booking, err := s.transition(ctx, bookingID, domain.BookingPending, domain.BookingRejected)
	if err != nil {
		return domain.Booking{}, "", fmt.Errorf("service.StatusService.Reject: %w", err)
	}

	warning := ""
	if booking.ScheduleID != nil {
		if _, err := s.inventory.Release(ctx, *booking.ScheduleID, booking.NumberOfPeople); err != nil {
			s.log.Error("seat release on rejection failed",
				"booking_id", booking.ID,
				"schedule_id", *booking.ScheduleID,
				"error", err,
			)
			warning = "booking rejected, but the reserved seats could not be released"
		}
	}

	s.notifyOwner(ctx, booking, "Booking Rejected",
		fmt.Sprintf("Your booking %s has been rejected.", booking.Reference))

	return booking, warning, nil
}

// Complete moves a confirmed booking to completed and notifies the owner.
func (s *StatusService) Complete(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return domain.Booking{}, "", fmt.Errorf("service.StatusService.Complete: %w", err)
	}

	booking, err := s.transition(ctx, bookingID, domain.BookingConfirmed, domain.BookingCompleted)
	if err != nil {
		return domain.Booking{}, "", fmt.Errorf("service.StatusService.Complete: %w", err)
	}

	s.notifyOwner(ctx, booking, "Trip Completed",
		fmt.Sprintf("Your trip for booking %s is complete. Thanks for traveling with us!", booking.Reference))

	return booking, "", nil
}

// transition applies from -> to on one booking. The table check names the
// offending edge in the error; the guarded UPDATE stays authoritative when
// two staff actions race between the read and the write.
func (s *StatusService) transition(ctx context.Context, bookingID uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !current.BookingStatus.CanTransition(to) {
		return domain.Booking{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.BookingStatus, to)
	}
	return s.bookings.UpdateBookingStatus(ctx, bookingID, from, to)
}

// notifyOwner writes one notification to the booking owner. Best-effort:
// a failure is logged and swallowed.
func (s *StatusService) notifyOwner(ctx context.Context, booking domain.Booking, title, message string) {
	n := domain.Notification{
		UserID:  booking.UserID,
		Title:   title,
		Message: message,
		Type:    domain.NotificationBooking,
		Link:    "/bookings/" + booking.ID.String(),
	}
	if _, err := s.notifications.Create(ctx, n); err != nil {
		s.log.Warn("owner notification failed",
			"booking_id", booking.ID,
			"title", title,
			"error", err,
		)
	}
}

// dispatchConfirmation assembles the booking summary and hands it to the
// email collaborator. The dispatcher renders the QR code from the reference.
func (s *StatusService) dispatchConfirmation(ctx context.Context, booking domain.Booking) error {
	owner, err := s.users.GetByID(ctx, booking.UserID)
	if err != nil {
		return fmt.Errorf("owner lookup: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, booking.TripID)
	if err != nil {
		return fmt.Errorf("trip lookup: %w", err)
	}

	names := make([]string, len(booking.Travelers))
	for i, t := range booking.Travelers {
		names[i] = t.Name
	}

	summary := BookingSummary{
		Reference:   booking.Reference,
		TripTitle:   trip.Title,
		Location:    trip.Location,
		Travelers:   names,
		TotalAmount: booking.TotalAmount,
	}
	if booking.ScheduleID != nil {
		// The date range is cosmetic on the email; a lookup failure here is
		// not worth failing the dispatch over.
		if sched, err := s.schedules.GetByID(ctx, *booking.ScheduleID); err == nil {
			summary.DateRange = fmt.Sprintf("%s to %s",
				sched.StartDate.Format("Jan 2, 2006"),
				sched.EndDate.Format("Jan 2, 2006"))
		}
	}

	return s.mailer.Send(ctx, owner.Email, summary)
}
