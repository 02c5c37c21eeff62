package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/asandov/tripmarket/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
// Status columns are only ever changed through the guarded Update* methods,
// which carry the expected current state in the WHERE clause so the state
// machine is enforced at the store, not by a read-then-write in the caller.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID primary key.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// GetByReference retrieves a booking by its traveler-facing reference.
	// Returns domain.ErrNotFound if no booking carries that reference.
	GetByReference(ctx context.Context, reference string) (domain.Booking, error)

	// ListByUser returns all bookings owned by userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)

	// ListByTrip returns all bookings referencing tripID, newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error)

	// UpdateBookingStatus moves a booking from one lifecycle state to another
	// and returns the updated record. The update only fires when the booking
	// is currently in the from state; otherwise domain.ErrInvalidTransition
	// is returned (or domain.ErrNotFound if the booking does not exist).
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error)

	// UpdateAttendanceStatus resolves a booking's attendance, guarded the same
	// way: it only fires while attendance is still pending.
	UpdateAttendanceStatus(ctx context.Context, id uuid.UUID, to domain.AttendanceStatus) (domain.Booking, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, reference, trip_id, schedule_id, user_id, number_of_people,
	total_amount, payment_method, payment_status, booking_status, attendance_status,
	travelers, created_at`

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (reference, trip_id, schedule_id, user_id, number_of_people,
			total_amount, payment_method, payment_status, booking_status, attendance_status, travelers)
		VALUES (@reference, @trip_id, @schedule_id, @user_id, @number_of_people,
			@total_amount, @payment_method, @payment_status, @booking_status, @attendance_status, @travelers)
		RETURNING ` + bookingColumns

	travelers, err := json.Marshal(b.Travelers)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: marshal travelers: %w", err)
	}

	args := pgx.NamedArgs{
		"reference":         b.Reference,
		"trip_id":           b.TripID,
		"schedule_id":       b.ScheduleID, // nil becomes NULL for legacy bookings
		"user_id":           b.UserID,
		"number_of_people":  b.NumberOfPeople,
		"total_amount":      b.TotalAmount,
		"payment_method":    string(b.PaymentMethod),
		"payment_status":    string(b.PaymentStatus),
		"booking_status":    string(b.BookingStatus),
		"attendance_status": string(b.AttendanceStatus),
		"travelers":         travelers,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) GetByReference(ctx context.Context, reference string) (domain.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = @reference`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"reference": reference})
	result, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByReference: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = @user_id ORDER BY created_at DESC`

	return r.list(ctx, q, pgx.NamedArgs{"user_id": userID}, "ListByUser")
}

func (r *pgBookingRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = @trip_id ORDER BY created_at DESC`

	return r.list(ctx, q, pgx.NamedArgs{"trip_id": tripID}, "ListByTrip")
}

func (r *pgBookingRepo) list(ctx context.Context, q string, args pgx.NamedArgs, op string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.%s: %w", op, err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.%s: scan: %w", op, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.%s: rows: %w", op, err)
	}

	return bookings, nil
}

func (r *pgBookingRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (domain.Booking, error) {
	q := `
		UPDATE bookings
		SET booking_status = @to
		WHERE id = @id AND booking_status = @from
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{"id": id, "from": string(from), "to": string(to)}
	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateBookingStatus: %w", err)
	}

	// No row matched: the booking is missing or not in the expected state.
	if _, err := r.GetByID(ctx, id); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateBookingStatus: %w", err)
	}
	return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateBookingStatus: %w", domain.ErrInvalidTransition)
}

func (r *pgBookingRepo) UpdateAttendanceStatus(ctx context.Context, id uuid.UUID, to domain.AttendanceStatus) (domain.Booking, error) {
	q := `
		UPDATE bookings
		SET attendance_status = @to
		WHERE id = @id AND attendance_status = @pending
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{"id": id, "to": string(to), "pending": string(domain.AttendancePending)}
	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateAttendanceStatus: %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateAttendanceStatus: %w", err)
	}
	return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateAttendanceStatus: %w", domain.ErrInvalidTransition)
}

// scanBooking maps a single database row into a domain.Booking.
// Travelers round-trip through jsonb; schedule_id may be NULL.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b          domain.Booking
		id         pgtype.UUID
		tripID     pgtype.UUID
		scheduleID pgtype.UUID
		userID     pgtype.UUID
		method     string
		payStatus  string
		bkStatus   string
		attStatus  string
		travelers  []byte
	)

	err := s.Scan(&id, &b.Reference, &tripID, &scheduleID, &userID, &b.NumberOfPeople,
		&b.TotalAmount, &method, &payStatus, &bkStatus, &attStatus, &travelers, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.TripID = uuid.UUID(tripID.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	if scheduleID.Valid {
		sid := uuid.UUID(scheduleID.Bytes)
		b.ScheduleID = &sid
	}
	b.PaymentMethod = domain.PaymentMethod(method)
	b.PaymentStatus = domain.PaymentStatus(payStatus)
	if b.BookingStatus, err = domain.ParseBookingStatus(bkStatus); err != nil {
		return domain.Booking{}, err
	}
	if b.AttendanceStatus, err = domain.ParseAttendanceStatus(attStatus); err != nil {
		return domain.Booking{}, err
	}
	if err := json.Unmarshal(travelers, &b.Travelers); err != nil {
		return domain.Booking{}, fmt.Errorf("unmarshal travelers: %w", err)
	}

	return b, nil
}
