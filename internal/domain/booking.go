package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a reservation of seats on a trip, optionally pinned to a specific
// schedule. ScheduleID is nil for legacy trips that only carry an inline date;
// such bookings never touch the seat counter.
//
// Reference is a 32-character lowercase-hex token encoded into the QR code on
// the confirmation email. It is the traveler-facing identifier; the UUID
// primary key never leaves the API surface in scannable form.
type Booking struct {
	ID               uuid.UUID        `json:"id"`
	Reference        string           `json:"reference"`
	TripID           uuid.UUID        `json:"trip_id"`
	ScheduleID       *uuid.UUID       `json:"schedule_id,omitempty"`
	UserID           uuid.UUID        `json:"user_id"`
	NumberOfPeople   int              `json:"number_of_people"`
	TotalAmount      float64          `json:"total_amount"`
	PaymentMethod    PaymentMethod    `json:"payment_method"`
	PaymentStatus    PaymentStatus    `json:"payment_status"`
	BookingStatus    BookingStatus    `json:"booking_status"`
	AttendanceStatus AttendanceStatus `json:"attendance_status"`
	Travelers        []Traveler       `json:"travelers"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Traveler is an embedded value object within a Booking, immutable once the
// booking is created. Phone and NationalID are mandatory for the primary
// traveler (index 0) and optional for everyone else.
type Traveler struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	Phone      string `json:"phone,omitempty"`
	NationalID string `json:"national_id,omitempty"`
}

// PaymentMethod selects how the traveler pays for the booking.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

// PaymentStatus is derived from the payment method at creation time:
// cash-on-delivery starts pending, online payment is confirmed up front.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
)

// NewReference returns a fresh booking reference: a UUID with the dashes
// stripped. The result is a 32-character alphanumeric run, which satisfies
// the QR scanner's extraction rule (longest alphanumeric run of length >= 20);
// a dashed UUID never does, so references and raw ids cannot be confused.
func NewReference() string {
	id := uuid.New()
	buf := make([]byte, 0, 32)
	for _, b := range id.String() {
		if b != '-' {
			buf = append(buf, byte(b))
		}
	}
	return string(buf)
}
