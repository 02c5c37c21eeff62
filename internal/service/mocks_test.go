package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
	"github.com/asandov/tripmarket/internal/service"
)

// farFuture is a departure date no test run will ever catch up to.
var farFuture = time.Date(2100, 6, 1, 0, 0, 0, 0, time.UTC)

// Hand-written test doubles for the repo and collaborator interfaces.
// Set only the method fields your test needs; unset methods that get called
// will panic, which is a loud signal the test's expectations are wrong.

type mockTripRepo struct {
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listActive func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListActive(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listActive(ctx, p)
}
func (m *mockTripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockScheduleRepo struct {
	create       func(ctx context.Context, s domain.Schedule) (domain.Schedule, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Schedule, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Schedule, error)
	deactivate   func(ctx context.Context, id uuid.UUID) (domain.Schedule, error)
	reserve      func(ctx context.Context, id uuid.UUID, count int) (int, error)
	release      func(ctx context.Context, id uuid.UUID, count int) (int, error)
}

func (m *mockScheduleRepo) Create(ctx context.Context, s domain.Schedule) (domain.Schedule, error) {
	return m.create(ctx, s)
}
func (m *mockScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	return m.getByID(ctx, id)
}
func (m *mockScheduleRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Schedule, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockScheduleRepo) Deactivate(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	return m.deactivate(ctx, id)
}
func (m *mockScheduleRepo) Reserve(ctx context.Context, id uuid.UUID, count int) (int, error) {
	return m.reserve(ctx, id, count)
}
func (m *mockScheduleRepo) Release(ctx context.Context, id uuid.UUID, count int) (int, error) {
	return m.release(ctx, id, count)
}

var _ repo.ScheduleRepo = (*mockScheduleRepo)(nil)

type mockBookingRepo struct {
	create                 func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID                func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	getByReference         func(ctx context.Context, reference string) (domain.Booking, error)
	listByUser             func(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	listByTrip             func(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)
	updateBookingStatus    func(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error)
	updateAttendanceStatus func(ctx context.Context, id uuid.UUID, to domain.AttendanceStatus) (domain.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) GetByReference(ctx context.Context, reference string) (domain.Booking, error) {
	return m.getByReference(ctx, reference)
}
func (m *mockBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockBookingRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockBookingRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	return m.updateBookingStatus(ctx, id, from, to)
}
func (m *mockBookingRepo) UpdateAttendanceStatus(ctx context.Context, id uuid.UUID, to domain.AttendanceStatus) (domain.Booking, error) {
	return m.updateAttendanceStatus(ctx, id, to)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

type mockNotificationRepo struct {
	create         func(ctx context.Context, n domain.Notification) (domain.Notification, error)
	createActivity func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	listByUser     func(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	unreadCount    func(ctx context.Context, userID uuid.UUID) (int64, error)
	markRead       func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return m.create(ctx, n)
}
func (m *mockNotificationRepo) CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.createActivity(ctx, a)
}
func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.unreadCount(ctx, userID)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return m.markRead(ctx, id, userID)
}

var _ repo.NotificationRepo = (*mockNotificationRepo)(nil)

type mockUserRepo struct {
	create          func(ctx context.Context, u domain.User) (domain.User, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.User, error)
	adminRecipients func(ctx context.Context, fallbackEmail string) ([]domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) AdminRecipients(ctx context.Context, fallbackEmail string) ([]domain.User, error) {
	return m.adminRecipients(ctx, fallbackEmail)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockInventory struct {
	reserve func(ctx context.Context, scheduleID uuid.UUID, count int) (int, error)
	release func(ctx context.Context, scheduleID uuid.UUID, count int) (int, error)
}

func (m *mockInventory) Reserve(ctx context.Context, id uuid.UUID, count int) (int, error) {
	return m.reserve(ctx, id, count)
}
func (m *mockInventory) Release(ctx context.Context, id uuid.UUID, count int) (int, error) {
	return m.release(ctx, id, count)
}

var _ service.Inventory = (*mockInventory)(nil)

type mockFanout struct {
	bookingCreated func(ctx context.Context, b domain.Booking, t domain.Trip) (int, error)
}

func (m *mockFanout) BookingCreated(ctx context.Context, b domain.Booking, t domain.Trip) (int, error) {
	return m.bookingCreated(ctx, b, t)
}

var _ service.Fanout = (*mockFanout)(nil)

type mockMailer struct {
	send func(ctx context.Context, recipientEmail string, summary service.BookingSummary) error
}

func (m *mockMailer) Send(ctx context.Context, recipientEmail string, summary service.BookingSummary) error {
	return m.send(ctx, recipientEmail, summary)
}

var _ service.Mailer = (*mockMailer)(nil)
