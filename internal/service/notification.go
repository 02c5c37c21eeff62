package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

// NotificationService exposes a user's in-app notification feed.
type NotificationService struct {
	notifications repo.NotificationRepo
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications repo.NotificationRepo) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// ListByUser returns the user's notifications, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *NotificationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	out, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.NotificationService.ListByUser: %w", err)
	}
	if out == nil {
		return []domain.Notification{}, nil
	}
	return out, nil
}

// UnreadCount returns the user's unread notification count.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service.NotificationService.UnreadCount: %w", err)
	}
	return count, nil
}

// MarkRead flips is_read on one of the user's notifications.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("service.NotificationService.MarkRead: %w", err)
	}
	return nil
}
