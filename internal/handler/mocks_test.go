package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/handler"
	"github.com/asandov/tripmarket/internal/middleware"
	"github.com/asandov/tripmarket/internal/service"
)

// Test doubles for the handler's consumer-side interfaces.
// Set only the method fields your test needs; an unset field panics,
// which immediately flags an unexpected call.

type mockTripServicer struct {
	create     func(ctx context.Context, trip domain.Trip, first *domain.Schedule) (domain.Trip, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listActive func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip, first *domain.Schedule) (domain.Trip, error) {
	return m.create(ctx, t, first)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListActive(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listActive(ctx, p)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockScheduleServicer struct {
	create       func(ctx context.Context, sched domain.Schedule) (domain.Schedule, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Schedule, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Schedule, error)
	deactivate   func(ctx context.Context, id uuid.UUID) (domain.Schedule, error)
}

func (m *mockScheduleServicer) Create(ctx context.Context, sched domain.Schedule) (domain.Schedule, error) {
	return m.create(ctx, sched)
}
func (m *mockScheduleServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	return m.getByID(ctx, id)
}
func (m *mockScheduleServicer) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Schedule, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockScheduleServicer) Deactivate(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	return m.deactivate(ctx, id)
}

var _ handler.ScheduleServicer = (*mockScheduleServicer)(nil)

type mockBookingServicer struct {
	create     func(ctx context.Context, in service.CreateBookingInput) (domain.Booking, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listByUser func(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)
}

func (m *mockBookingServicer) Create(ctx context.Context, in service.CreateBookingInput) (domain.Booking, error) {
	return m.create(ctx, in)
}
func (m *mockBookingServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingServicer) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockBookingServicer) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	return m.listByTrip(ctx, tripID)
}

var _ handler.BookingServicer = (*mockBookingServicer)(nil)

type mockStatusServicer struct {
	confirm  func(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error)
	reject   func(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error)
	complete func(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error)
}

func (m *mockStatusServicer) Confirm(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error) {
	return m.confirm(ctx, actorID, bookingID)
}
func (m *mockStatusServicer) Reject(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error) {
	return m.reject(ctx, actorID, bookingID)
}
func (m *mockStatusServicer) Complete(ctx context.Context, actorID, bookingID uuid.UUID) (domain.Booking, string, error) {
	return m.complete(ctx, actorID, bookingID)
}

var _ handler.StatusServicer = (*mockStatusServicer)(nil)

type mockAttendanceServicer struct {
	scan func(ctx context.Context, actorID, tripID uuid.UUID, scanned string, mark domain.AttendanceStatus) (domain.Booking, error)
}

func (m *mockAttendanceServicer) Scan(ctx context.Context, actorID, tripID uuid.UUID, scanned string, mark domain.AttendanceStatus) (domain.Booking, error) {
	return m.scan(ctx, actorID, tripID, scanned, mark)
}

var _ handler.AttendanceServicer = (*mockAttendanceServicer)(nil)

type mockNotificationServicer struct {
	listByUser  func(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	unreadCount func(ctx context.Context, userID uuid.UUID) (int64, error)
	markRead    func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockNotificationServicer) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockNotificationServicer) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.unreadCount(ctx, userID)
}
func (m *mockNotificationServicer) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return m.markRead(ctx, id, userID)
}

var _ handler.NotificationServicer = (*mockNotificationServicer)(nil)

type mockVendorServicer struct {
	apply func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *mockVendorServicer) Apply(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.apply(ctx, userID)
}

var _ handler.VendorServicer = (*mockVendorServicer)(nil)

// mockAuthorizer grants or denies the staff capability wholesale.
type mockAuthorizer struct {
	admin bool
}

func (m *mockAuthorizer) IsAdmin(context.Context, uuid.UUID) (bool, error) {
	return m.admin, nil
}
func (m *mockAuthorizer) RequireAdmin(context.Context, uuid.UUID) error {
	if !m.admin {
		return domain.ErrForbidden
	}
	return nil
}

var _ handler.Authorizer = (*mockAuthorizer)(nil)

// ---- wiring helpers --------------------------------------------------------

// deps bundles the Server dependencies so each test overrides only what it uses.
type deps struct {
	trips         handler.TripServicer
	schedules     handler.ScheduleServicer
	bookings      handler.BookingServicer
	status        handler.StatusServicer
	attendance    handler.AttendanceServicer
	notifications handler.NotificationServicer
	vendors       handler.VendorServicer
	authz         handler.Authorizer
	watcher       *service.SeatWatcher
}

// testUserID is the identity stubAuth attaches to every request.
var testUserID = uuid.MustParse("7a9f3f40-1111-4a2b-9c3d-000000000001")

// stubAuth stands in for the JWT middleware: it attaches testUserID to the
// request context unconditionally.
func stubAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), testUserID)))
	})
}

// newTestHandler wires a Server with the given deps into its chi router,
// mirroring how main.go wires it in production.
func newTestHandler(d deps) http.Handler {
	if d.authz == nil {
		d.authz = &mockAuthorizer{admin: true}
	}
	if d.watcher == nil {
		d.watcher = service.NewSeatWatcher()
	}
	srv := handler.NewServer(d.trips, d.schedules, d.bookings, d.status, d.attendance, d.notifications, d.vendors, d.authz, d.watcher)
	return srv.Routes(stubAuth)
}

// ---- fixtures --------------------------------------------------------------

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:             uuid.New(),
		Title:          "Annapurna Base Camp Trek",
		Location:       "Pokhara",
		PricePerPerson: 450,
		DurationDays:   10,
		MaxSeats:       12,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func bookingFixture(userID uuid.UUID) domain.Booking {
	schedID := uuid.New()
	return domain.Booking{
		ID:             uuid.New(),
		Reference:      domain.NewReference(),
		TripID:         uuid.New(),
		ScheduleID:     &schedID,
		UserID:         userID,
		NumberOfPeople: 2,
		TotalAmount:    900,
		PaymentMethod:  domain.PaymentCOD,
		PaymentStatus:  domain.PaymentStatusPending,
		BookingStatus:  domain.BookingPending,
		Travelers: []domain.Traveler{
			{Name: "Asha Rai", Age: 31, Gender: "female", Phone: "9800000001", NationalID: "N-1001"},
			{Name: "Bikram Rai", Age: 33, Gender: "male"},
		},
		AttendanceStatus: domain.AttendancePending,
		CreatedAt:        time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}
