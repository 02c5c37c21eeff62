package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

// FanoutService computes the staff audience for marketplace events and emits
// one notification per recipient plus exactly one activity-feed entry.
// Writes are append-only with no delivery tracking, so a retry after partial
// failure at worst duplicates a notification — it can never corrupt state.
type FanoutService struct {
	users         repo.UserRepo
	notifications repo.NotificationRepo
	adminEmail    string
}

// NewFanoutService constructs a FanoutService. adminEmail is the configured
// fallback administrator email and may be empty.
func NewFanoutService(users repo.UserRepo, notifications repo.NotificationRepo, adminEmail string) *FanoutService {
	return &FanoutService{users: users, notifications: notifications, adminEmail: adminEmail}
}

// BookingCreated notifies every admin about a new booking and appends one
// activity entry. Returns the number of notifications written.
func (s *FanoutService) BookingCreated(ctx context.Context, booking domain.Booking, trip domain.Trip) (int, error) {
	title := "New Booking"
	message := fmt.Sprintf("New booking for %s (%d seats)", trip.Title, booking.NumberOfPeople)
	link := "/bookings/" + booking.ID.String()

	n, err := s.fanout(ctx, title, message, domain.NotificationBooking, link)
	if err != nil {
		return n, fmt.Errorf("service.FanoutService.BookingCreated: %w", err)
	}

	activity := domain.Activity{
		Message: fmt.Sprintf("Booking %s created for trip %q", booking.Reference, trip.Title),
		Type:    domain.NotificationBooking,
	}
	if _, err := s.notifications.CreateActivity(ctx, activity); err != nil {
		return n, fmt.Errorf("service.FanoutService.BookingCreated: activity: %w", err)
	}
	return n, nil
}

// VendorApplied notifies every admin about a new vendor application and
// appends one activity entry. Returns the number of notifications written.
func (s *FanoutService) VendorApplied(ctx context.Context, applicant domain.User) (int, error) {
	title := "New Vendor Application"
	message := fmt.Sprintf("%s applied to become a vendor", applicant.Name)
	link := "/vendors/applications"

	n, err := s.fanout(ctx, title, message, domain.NotificationVendor, link)
	if err != nil {
		return n, fmt.Errorf("service.FanoutService.VendorApplied: %w", err)
	}

	activity := domain.Activity{
		Message: fmt.Sprintf("Vendor application received from %s", applicant.Email),
		Type:    domain.NotificationVendor,
	}
	if _, err := s.notifications.CreateActivity(ctx, activity); err != nil {
		return n, fmt.Errorf("service.FanoutService.VendorApplied: activity: %w", err)
	}
	return n, nil
}

// Apply records a vendor application from the given user: it resolves the
// applicant and runs the VendorApplied fanout. Returns domain.ErrNotFound
// when the user id does not resolve to an account.
func (s *FanoutService) Apply(ctx context.Context, userID uuid.UUID) (int, error) {
	applicant, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service.FanoutService.Apply: %w", err)
	}
	return s.VendorApplied(ctx, applicant)
}

// fanout writes one notification per admin recipient. The repo query already
// deduplicates; the map guards against a repo implementation that does not.
func (s *FanoutService) fanout(ctx context.Context, title, message, typ, link string) (int, error) {
	recipients, err := s.users.AdminRecipients(ctx, s.adminEmail)
	if err != nil {
		return 0, fmt.Errorf("recipients: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(recipients))
	written := 0
	for _, u := range recipients {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true

		n := domain.Notification{
			UserID:  u.ID,
			Title:   title,
			Message: message,
			Type:    typ,
			Link:    link,
		}
		if _, err := s.notifications.Create(ctx, n); err != nil {
			return written, fmt.Errorf("notify %s: %w", u.ID, err)
		}
		written++
	}
	return written, nil
}
