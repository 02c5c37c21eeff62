package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/asandov/tripmarket/internal/domain"
)

// ScheduleRepo defines the persistence operations for trip schedules,
// including the two seat-counter operations. This repo is the sole writer of
// available_seats; no other package touches the column.
type ScheduleRepo interface {
	// Create inserts a new schedule and returns the persisted record.
	Create(ctx context.Context, s domain.Schedule) (domain.Schedule, error)

	// GetByID retrieves a single schedule by its UUID primary key.
	// Returns domain.ErrNotFound if no schedule with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Schedule, error)

	// ListByTripID returns all schedules for a trip ordered by start_date.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Schedule, error)

	// Deactivate marks a schedule inactive so no new bookings can target it.
	// Existing bookings and their reserved seats are untouched.
	// Returns domain.ErrNotFound if the schedule does not exist.
	Deactivate(ctx context.Context, id uuid.UUID) (domain.Schedule, error)

	// Reserve atomically decrements available_seats by count and returns the
	// new value. The check and the write are a single conditional UPDATE, so
	// two concurrent reservations can never both succeed when their combined
	// count exceeds the remaining seats.
	// Returns domain.ErrInsufficientSeats if fewer than count seats remain,
	// domain.ErrNotFound if the schedule does not exist.
	Reserve(ctx context.Context, id uuid.UUID, count int) (int, error)

	// Release returns count seats to the schedule and returns the new value.
	// The result is clamped to the parent trip's max_seats, so a double
	// release can never inflate inventory past capacity.
	// Returns domain.ErrNotFound if the schedule does not exist.
	Release(ctx context.Context, id uuid.UUID, count int) (int, error)
}

// pgScheduleRepo is the Postgres implementation of ScheduleRepo.
type pgScheduleRepo struct {
	db db
}

// NewScheduleRepo constructs a ScheduleRepo backed by the provided db connection.
func NewScheduleRepo(db db) ScheduleRepo {
	return &pgScheduleRepo{db: db}
}

func (r *pgScheduleRepo) Create(ctx context.Context, s domain.Schedule) (domain.Schedule, error) {
	const q = `
		INSERT INTO trip_schedules (trip_id, start_date, end_date, available_seats, is_active)
		VALUES (@trip_id, @start_date, @end_date, @available_seats, @is_active)
		RETURNING id, trip_id, start_date, end_date, available_seats, is_active, created_at`

	args := pgx.NamedArgs{
		"trip_id":         s.TripID,
		"start_date":      s.StartDate,
		"end_date":        s.EndDate,
		"available_seats": s.AvailableSeats,
		"is_active":       s.IsActive,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSchedule(row)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("repo.ScheduleRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	const q = `
		SELECT id, trip_id, start_date, end_date, available_seats, is_active, created_at
		FROM trip_schedules
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanSchedule(row)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("repo.ScheduleRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgScheduleRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Schedule, error) {
	const q = `
		SELECT id, trip_id, start_date, end_date, available_seats, is_active, created_at
		FROM trip_schedules
		WHERE trip_id = @trip_id
		ORDER BY start_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ScheduleRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ScheduleRepo.ListByTripID: scan: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ScheduleRepo.ListByTripID: rows: %w", err)
	}

	return schedules, nil
}

func (r *pgScheduleRepo) Deactivate(ctx context.Context, id uuid.UUID) (domain.Schedule, error) {
	const q = `
		UPDATE trip_schedules
		SET is_active = false
		WHERE id = @id
		RETURNING id, trip_id, start_date, end_date, available_seats, is_active, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanSchedule(row)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("repo.ScheduleRepo.Deactivate: %w", err)
	}
	return result, nil
}

// Reserve performs the conditional decrement in one statement. The WHERE
// clause carries the seat check, so the database serializes concurrent
// callers on the row lock and the counter can never go negative.
func (r *pgScheduleRepo) Reserve(ctx context.Context, id uuid.UUID, count int) (int, error) {
	const q = `
		UPDATE trip_schedules
		SET available_seats = available_seats - @count
		WHERE id = @id AND available_seats >= @count
		RETURNING available_seats`

	var remaining int
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "count": count}).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("repo.ScheduleRepo.Reserve: %w", err)
	}

	// No row matched: either the schedule is gone or it lacks seats.
	// A point read disambiguates; the answer is only advisory (the caller
	// treats both as terminal), so a race here is harmless.
	if _, err := r.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("repo.ScheduleRepo.Reserve: %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("repo.ScheduleRepo.Reserve: %w", err)
	}
	return 0, fmt.Errorf("repo.ScheduleRepo.Reserve: %w", domain.ErrInsufficientSeats)
}

// Release adds seats back, clamped to the parent trip's capacity.
func (r *pgScheduleRepo) Release(ctx context.Context, id uuid.UUID, count int) (int, error) {
	const q = `
		UPDATE trip_schedules s
		SET available_seats = LEAST(s.available_seats + @count, t.max_seats)
		FROM trips t
		WHERE s.id = @id AND t.id = s.trip_id
		RETURNING s.available_seats`

	var remaining int
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "count": count}).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("repo.ScheduleRepo.Release: %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("repo.ScheduleRepo.Release: %w", err)
	}
	return remaining, nil
}

// scanSchedule maps a single database row into a domain.Schedule.
func scanSchedule(s scanner) (domain.Schedule, error) {
	var (
		sc     domain.Schedule
		id     pgtype.UUID
		tripID pgtype.UUID
		start  pgtype.Date
		end    pgtype.Date
	)

	err := s.Scan(&id, &tripID, &start, &end, &sc.AvailableSeats, &sc.IsActive, &sc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Schedule{}, domain.ErrNotFound
		}
		return domain.Schedule{}, err
	}

	sc.ID = uuid.UUID(id.Bytes)
	sc.TripID = uuid.UUID(tripID.Bytes)
	sc.StartDate = start.Time
	sc.EndDate = end.Time
	return sc, nil
}
