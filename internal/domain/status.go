package domain

import "fmt"

// BookingStatus is the staff-driven lifecycle state of a booking.
// Valid transitions: pending -> confirmed, pending -> rejected,
// confirmed -> completed. rejected and completed are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
)

// ParseBookingStatus validates a raw status string from the wire or the store.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCompleted:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}

// bookingTransitions is the full transition table. Absence means forbidden.
var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingPending:   {BookingConfirmed: true, BookingRejected: true},
	BookingConfirmed: {BookingCompleted: true},
	BookingRejected:  {},
	BookingCompleted: {},
}

// CanTransition reports whether the booking status machine permits from -> to.
func (from BookingStatus) CanTransition(to BookingStatus) bool {
	m, ok := bookingTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// AttendanceStatus is the check-in state of a confirmed booking, driven by
// QR scans at departure. One-shot: pending -> attended or pending ->
// not_attended, never back.
type AttendanceStatus string

const (
	AttendancePending     AttendanceStatus = "pending"
	AttendanceAttended    AttendanceStatus = "attended"
	AttendanceNotAttended AttendanceStatus = "not_attended"
)

// ParseAttendanceStatus validates a raw attendance status string.
func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	switch AttendanceStatus(s) {
	case AttendancePending, AttendanceAttended, AttendanceNotAttended:
		return AttendanceStatus(s), nil
	default:
		return "", fmt.Errorf("unknown attendance status: %q", s)
	}
}

// CanTransition reports whether the attendance machine permits from -> to.
// Only the two pending -> resolved edges exist.
func (from AttendanceStatus) CanTransition(to AttendanceStatus) bool {
	if from != AttendancePending {
		return false
	}
	return to == AttendanceAttended || to == AttendanceNotAttended
}
