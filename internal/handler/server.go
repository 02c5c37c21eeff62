// Package handler implements the HTTP handlers for the trip-booking API.
// Handlers are methods on Server, split into domain-specific files
// (trip.go, booking.go, etc.) but all sharing the same struct so they can
// access its dependencies. Routes assembles the chi router.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/service"
)

// TripServicer defines the business operations the trip handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip, firstDeparture *domain.Schedule) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListActive(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

// ScheduleServicer defines the schedule operations the handler depends on.
type ScheduleServicer interface {
	Create(ctx context.Context, sched domain.Schedule) (domain.Schedule, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Schedule, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Schedule, error)
	Deactivate(ctx context.Context, id uuid.UUID) (domain.Schedule, error)
}

// BookingServicer defines the booking ledger operations the handler depends on.
type BookingServicer interface {
	Create(ctx context.Context, in service.CreateBookingInput) (domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)
}

// StatusServicer drives the booking status state machine. The string return
// is a non-fatal warning (e.g. the confirmation email could not be sent).
type StatusServicer interface {
	Confirm(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error)
	Reject(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error)
	Complete(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error)
}

// AttendanceServicer resolves a scanned QR payload into an attendance mark.
type AttendanceServicer interface {
	Scan(ctx context.Context, actorID, tripID uuid.UUID, scanned string, mark domain.AttendanceStatus) (domain.Booking, error)
}

// NotificationServicer defines the notification operations the handler depends on.
type NotificationServicer interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// VendorServicer records a vendor application and alerts staff.
type VendorServicer interface {
	Apply(ctx context.Context, userID uuid.UUID) (int, error)
}

// Authorizer answers whether a user holds the staff capability.
type Authorizer interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	RequireAdmin(ctx context.Context, userID uuid.UUID) error
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	trips         TripServicer
	schedules     ScheduleServicer
	bookings      BookingServicer
	status        StatusServicer
	attendance    AttendanceServicer
	notifications NotificationServicer
	vendors       VendorServicer
	authz         Authorizer
	watcher       *service.SeatWatcher
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	schedules ScheduleServicer,
	bookings BookingServicer,
	status StatusServicer,
	attendance AttendanceServicer,
	notifications NotificationServicer,
	vendors VendorServicer,
	authz Authorizer,
	watcher *service.SeatWatcher,
) *Server {
	return &Server{
		trips:         trips,
		schedules:     schedules,
		bookings:      bookings,
		status:        status,
		attendance:    attendance,
		notifications: notifications,
		vendors:       vendors,
		authz:         authz,
		watcher:       watcher,
	}
}

// Routes assembles the chi router. requireAuth guards every route that needs
// an authenticated caller; read-only catalog routes stay public.
func (s *Server) Routes(requireAuth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Get("/trips", s.ListTrips)
	r.Get("/trips/{tripID}", s.GetTrip)
	r.Get("/trips/{tripID}/schedules", s.ListSchedules)
	r.Get("/schedules/{id}/seats", s.GetSeats)
	r.Get("/schedules/{id}/seats/stream", s.StreamSeats)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/trips", s.CreateTrip)
		r.Put("/trips/{tripID}", s.UpdateTrip)
		r.Post("/trips/{tripID}/schedules", s.CreateSchedule)
		r.Delete("/schedules/{id}", s.DeactivateSchedule)

		r.Post("/bookings", s.CreateBooking)
		r.Get("/bookings/{id}", s.GetBooking)
		r.Get("/my/bookings", s.ListMyBookings)
		r.Get("/trips/{tripID}/bookings", s.ListTripBookings)

		r.Post("/bookings/{id}/confirm", s.ConfirmBooking)
		r.Post("/bookings/{id}/reject", s.RejectBooking)
		r.Post("/bookings/{id}/complete", s.CompleteBooking)

		r.Post("/trips/{tripID}/attendance/scan", s.ScanAttendance)

		r.Post("/vendors/apply", s.ApplyAsVendor)

		r.Get("/my/notifications", s.ListMyNotifications)
		r.Get("/my/notifications/unread", s.CountUnreadNotifications)
		r.Post("/notifications/{id}/read", s.MarkNotificationRead)
	})

	return r
}
