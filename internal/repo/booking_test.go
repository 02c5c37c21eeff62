package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

func TestBookingRepo_Create(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)
	ctx := context.Background()

	trip := mustCreateTrip(t, tx, tripFixture())
	sched := mustCreateSchedule(t, tx, scheduleFixture(trip.ID, 10))
	user := mustCreateUser(t, tx, userFixture())

	input := bookingFixture(trip.ID, &sched.ID, user.ID)
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, input.Reference, got.Reference)
	require.NotNil(t, got.ScheduleID)
	assert.Equal(t, sched.ID, *got.ScheduleID)
	assert.Equal(t, domain.BookingPending, got.BookingStatus)
	assert.Equal(t, domain.AttendancePending, got.AttendanceStatus)

	// Travelers round-trip through jsonb.
	require.Len(t, got.Travelers, 2)
	assert.Equal(t, "Asha Rai", got.Travelers[0].Name)
	assert.Equal(t, "9800000001", got.Travelers[0].Phone)
	assert.Equal(t, "N-1001", got.Travelers[0].NationalID)
	assert.Empty(t, got.Travelers[1].Phone)
}

func TestBookingRepo_Create_LegacyWithoutSchedule(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)
	ctx := context.Background()

	trip := mustCreateTrip(t, tx, tripFixture())
	user := mustCreateUser(t, tx, userFixture())

	got, err := r.Create(ctx, bookingFixture(trip.ID, nil, user.ID))

	require.NoError(t, err)
	assert.Nil(t, got.ScheduleID, "schedule_id stays NULL for legacy bookings")
}

func TestBookingRepo_GetByReference(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)
	ctx := context.Background()

	trip := mustCreateTrip(t, tx, tripFixture())
	user := mustCreateUser(t, tx, userFixture())
	created := mustCreateBooking(t, tx, bookingFixture(trip.ID, nil, user.ID))

	got, err := r.GetByReference(ctx, created.Reference)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestBookingRepo_GetByReference_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)

	_, err := r.GetByReference(context.Background(), domain.NewReference())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_ListByUser(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)
	ctx := context.Background()

	trip := mustCreateTrip(t, tx, tripFixture())
	owner := mustCreateUser(t, tx, userFixture())
	other := mustCreateUser(t, tx, userFixture())

	mine := mustCreateBooking(t, tx, bookingFixture(trip.ID, nil, owner.ID))
	mustCreateBooking(t, tx, bookingFixture(trip.ID, nil, other.ID))

	got, err := r.ListByUser(ctx, owner.ID)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}

func TestBookingRepo_ListByTrip(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)
	ctx := context.Background()

	trip := mustCreateTrip(t, tx, tripFixture())
	otherTrip := mustCreateTrip(t, tx, tripFixture())
	user := mustCreateUser(t, tx, userFixture())

	mustCreateBooking(t, tx, bookingFixture(trip.ID, nil, user.ID))
	mustCreateBooking(t, tx, bookingFixture(trip.ID, nil, user.ID))
	mustCreateBooking(t, tx, bookingFixture(otherTrip.ID, nil, user.ID))

	got, err := r.ListByTrip(ctx, trip.ID)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestBookingRepo_UpdateBookingStatus(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)
	ctx := context.Background()

	trip := mustCreateTrip(t, tx, tripFixture())
	user := mustCreateUser(t, tx, userFixture())
	created := mustCreateBooking(t, tx, bookingFixture(trip.ID, nil, user.ID))

	got, err := r.UpdateBookingStatus(ctx, created.ID, domain.BookingPending, domain.BookingConfirmed)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.BookingStatus)
}

func TestBookingRepo_UpdateBookingStatus_GuardRejectsWrongState(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)
	ctx := context.Background()

	trip := mustCreateTrip(t, tx, tripFixture())
	user := mustCreateUser(t, tx, userFixture())
	created := mustCreateBooking(t, tx, bookingFixture(trip.ID, nil, user.ID))

	// Still pending; the confirmed→completed guard must not match.
	_, err := r.UpdateBookingStatus(ctx, created.ID, domain.BookingConfirmed, domain.BookingCompleted)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, got.BookingStatus, "guard rejection leaves the row untouched")
}

func TestBookingRepo_UpdateBookingStatus_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)

	_, err := r.UpdateBookingStatus(context.Background(), uuid.New(), domain.BookingPending, domain.BookingConfirmed)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepo_UpdateAttendanceStatus(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewBookingRepo(tx)
	ctx := context.Background()

	trip := mustCreateTrip(t, tx, tripFixture())
	user := mustCreateUser(t, tx, userFixture())
	created := mustCreateBooking(t, tx, bookingFixture(trip.ID, nil, user.ID))

	got, err := r.UpdateAttendanceStatus(ctx, created.ID, domain.AttendanceAttended)

	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceAttended, got.AttendanceStatus)

	// Attendance marks are one-shot; a second scan must bounce.
	_, err = r.UpdateAttendanceStatus(ctx, created.ID, domain.AttendanceNotAttended)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
