package domain

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is one dated departure instance of a Trip, holding its own seat
// counter. AvailableSeats is the single contended resource in the system:
// it is only ever changed through the repo's atomic Reserve and Release
// operations and always satisfies 0 <= AvailableSeats <= parent MaxSeats.
type Schedule struct {
	ID             uuid.UUID `json:"id"`
	TripID         uuid.UUID `json:"trip_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	AvailableSeats int       `json:"available_seats"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}
