package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message addressed to one recipient user.
// Rows are append-only except for the IsRead flag.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      string    `json:"link,omitempty"` // optional deep link into the UI
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification type tags. The UI switches icons on these.
const (
	NotificationBooking    = "booking"
	NotificationAttendance = "attendance"
	NotificationVendor     = "vendor"
)

// Activity is a single global audit entry for the admin activity feed.
// It has no recipient and is strictly append-only.
type Activity struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
