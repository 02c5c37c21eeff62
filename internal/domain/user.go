package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. The core does not manage credentials or
// sessions; identity arrives as an opaque authenticated user id from the
// auth collaborator. Admin capability is carried redundantly by the legacy
// data model (a boolean flag and a roles array) — IsAdmin is the one place
// that reconciles the two, plus the configured fallback admin email.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AdminFlag bool      `json:"is_admin"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds admin capability through any of the
// role signals: the boolean flag, an "admin" entry in the roles array, or a
// match against the configured fallback administrator email.
func (u User) IsAdmin(fallbackAdminEmail string) bool {
	if u.AdminFlag {
		return true
	}
	for _, r := range u.Roles {
		if r == "admin" {
			return true
		}
	}
	return fallbackAdminEmail != "" && u.Email == fallbackAdminEmail
}
