package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

// Authorizer is the single source of truth for the admin capability.
// The legacy data model carries three overlapping role signals (a boolean
// flag, a roles array, and a configured fallback email); every call site
// that needs "is this user staff?" goes through here instead of
// re-implementing the union.
type Authorizer struct {
	users      repo.UserRepo
	adminEmail string
}

// NewAuthorizer constructs an Authorizer. adminEmail is the configured
// fallback administrator email and may be empty.
func NewAuthorizer(users repo.UserRepo, adminEmail string) *Authorizer {
	return &Authorizer{users: users, adminEmail: adminEmail}
}

// IsAdmin reports whether the user holds admin capability through any role
// signal. Returns domain.ErrNotFound if the user does not exist.
func (a *Authorizer) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("service.Authorizer.IsAdmin: %w", err)
	}
	return u.IsAdmin(a.adminEmail), nil
}

// RequireAdmin returns domain.ErrForbidden unless the user is an admin.
func (a *Authorizer) RequireAdmin(ctx context.Context, userID uuid.UUID) error {
	ok, err := a.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("service.Authorizer.RequireAdmin: %w", domain.ErrForbidden)
	}
	return nil
}
