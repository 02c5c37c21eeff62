// Package domain contains the core data types for the trip-booking marketplace.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a bookable product offered by the marketplace.
// A trip is the top-level aggregate; schedules and bookings reference it.
// Edits to a trip never retroactively change committed bookings.
type Trip struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	PricePerPerson float64   `json:"price_per_person"`
	DurationDays   int       `json:"duration_days"`
	MaxSeats       int       `json:"max_seats"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
