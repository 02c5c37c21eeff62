package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
	"github.com/asandov/tripmarket/testutil"
)

// newTestTx opens a transaction against the test database. The transaction is
// rolled back when the test finishes, giving free per-test isolation: any repo
// built on it sees its own writes and leaves no trace.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return tx
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture() domain.Trip {
	return domain.Trip{
		Title:          "Everest Panorama Trek",
		Location:       "Lukla",
		PricePerPerson: 520,
		DurationDays:   7,
		MaxSeats:       10,
		IsActive:       true,
	}
}

func scheduleFixture(tripID uuid.UUID, seats int) domain.Schedule {
	return domain.Schedule{
		TripID:         tripID,
		StartDate:      time.Date(2100, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2100, 3, 7, 0, 0, 0, 0, time.UTC),
		AvailableSeats: seats,
		IsActive:       true,
	}
}

func userFixture() domain.User {
	return domain.User{
		Email: "traveler-" + uuid.NewString() + "@example.com",
		Name:  "Test Traveler",
	}
}

func bookingFixture(tripID uuid.UUID, scheduleID *uuid.UUID, userID uuid.UUID) domain.Booking {
	return domain.Booking{
		Reference:      domain.NewReference(),
		TripID:         tripID,
		ScheduleID:     scheduleID,
		UserID:         userID,
		NumberOfPeople: 2,
		TotalAmount:    1040,
		PaymentMethod:  domain.PaymentCOD,
		PaymentStatus:  domain.PaymentStatusPending,
		BookingStatus:  domain.BookingPending,
		Travelers: []domain.Traveler{
			{Name: "Asha Rai", Age: 31, Gender: "female", Phone: "9800000001", NationalID: "N-1001"},
			{Name: "Bikram Rai", Age: 33, Gender: "male"},
		},
		AttendanceStatus: domain.AttendancePending,
	}
}

// mustCreateTrip inserts a trip through the repo and fails the test on error.
func mustCreateTrip(t *testing.T, db pgx.Tx, trip domain.Trip) domain.Trip {
	t.Helper()
	created, err := repo.NewTripRepo(db).Create(context.Background(), trip)
	require.NoError(t, err, "create trip fixture")
	return created
}

func mustCreateSchedule(t *testing.T, db pgx.Tx, s domain.Schedule) domain.Schedule {
	t.Helper()
	created, err := repo.NewScheduleRepo(db).Create(context.Background(), s)
	require.NoError(t, err, "create schedule fixture")
	return created
}

func mustCreateUser(t *testing.T, db pgx.Tx, u domain.User) domain.User {
	t.Helper()
	created, err := repo.NewUserRepo(db).Create(context.Background(), u)
	require.NoError(t, err, "create user fixture")
	return created
}

func mustCreateBooking(t *testing.T, db pgx.Tx, b domain.Booking) domain.Booking {
	t.Helper()
	created, err := repo.NewBookingRepo(db).Create(context.Background(), b)
	require.NoError(t, err, "create booking fixture")
	return created
}
