package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

// referencePattern matches candidate booking-reference tokens inside
// free-form scanned text: alphanumeric runs of at least 20 characters.
// Generated references are 32 hex chars; a dashed UUID never qualifies.
var referencePattern = regexp.MustCompile(`[A-Za-z0-9]{20,}`)

// ExtractReference pulls the booking-reference token out of free-form
// scanned text — a bare reference or any URL embedding one. When several
// runs qualify the longest wins, so short alphanumeric URL segments
// (hostnames, path words) lose to the reference.
// Returns false when no run of sufficient length exists.
func ExtractReference(scanned string) (string, bool) {
	best := ""
	for _, m := range referencePattern.FindAllString(scanned, -1) {
		if len(m) > len(best) {
			best = m
		}
	}
	return best, best != ""
}

// AttendanceService resolves QR scans (and manual entries, which travel the
// identical path) into one-shot attendance transitions on confirmed bookings.
type AttendanceService struct {
	bookings      repo.BookingRepo
	notifications repo.NotificationRepo
	authz         *Authorizer
	log           *slog.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(bookings repo.BookingRepo, notifications repo.NotificationRepo, authz *Authorizer, log *slog.Logger) *AttendanceService {
	if log == nil {
		log = slog.Default()
	}
	return &AttendanceService{bookings: bookings, notifications: notifications, authz: authz, log: log}
}

// Scan resolves scanned text to a booking on the given trip and records the
// attendance mark. The scan is rejected without state change when:
//   - no reference token can be extracted (domain.ErrNotFound);
//   - no booking carries the token (domain.ErrNotFound);
//   - the booking belongs to a different trip or is not confirmed
//     (domain.ErrNotFound — it is not in the trip's confirmed booking set);
//   - attendance was already resolved (domain.ErrInvalidTransition).
//
// On success the booking owner is notified of the new status (best-effort).
func (s *AttendanceService) Scan(ctx context.Context, actorID, tripID uuid.UUID, scanned string, mark domain.AttendanceStatus) (domain.Booking, error) {
	if err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return domain.Booking{}, fmt.Errorf("service.AttendanceService.Scan: %w", err)
	}

	if !domain.AttendancePending.CanTransition(mark) {
		return domain.Booking{}, fmt.Errorf("%w: attendance mark must be attended or not_attended", domain.ErrValidation)
	}

	token, ok := ExtractReference(scanned)
	if !ok {
		return domain.Booking{}, fmt.Errorf("service.AttendanceService.Scan: no reference in scan: %w", domain.ErrNotFound)
	}

	booking, err := s.bookings.GetByReference(ctx, token)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.AttendanceService.Scan: %w", err)
	}
	if booking.TripID != tripID || booking.BookingStatus != domain.BookingConfirmed {
		// Not in this trip's confirmed booking set — reject, no state change.
		return domain.Booking{}, fmt.Errorf("service.AttendanceService.Scan: booking not eligible: %w", domain.ErrNotFound)
	}
	if !booking.AttendanceStatus.CanTransition(mark) {
		return domain.Booking{}, fmt.Errorf("service.AttendanceService.Scan: attendance already %s: %w",
			booking.AttendanceStatus, domain.ErrInvalidTransition)
	}

	updated, err := s.bookings.UpdateAttendanceStatus(ctx, booking.ID, mark)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.AttendanceService.Scan: %w", err)
	}

	title := "Checked In"
	message := fmt.Sprintf("Attendance for booking %s was recorded as attended.", updated.Reference)
	if mark == domain.AttendanceNotAttended {
		title = "Marked Absent"
		message = fmt.Sprintf("Attendance for booking %s was recorded as not attended.", updated.Reference)
	}
	n := domain.Notification{
		UserID:  updated.UserID,
		Title:   title,
		Message: message,
		Type:    domain.NotificationAttendance,
		Link:    "/bookings/" + updated.ID.String(),
	}
	if _, err := s.notifications.Create(ctx, n); err != nil {
		s.log.Warn("attendance notification failed",
			"booking_id", updated.ID,
			"error", err,
		)
	}

	return updated, nil
}
