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

// NotificationRepo defines the append-mostly persistence operations for
// notifications and the global activity feed. Rows are never updated after
// insert except to flip is_read.
type NotificationRepo interface {
	// Create inserts one notification and returns the persisted record.
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// CreateActivity appends one entry to the global activity feed.
	CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// ListByUser returns a user's notifications, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)

	// UnreadCount returns the number of unread notifications for a user.
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkRead flips is_read on one notification, scoped to its recipient so
	// a user cannot mark someone else's notification. Returns
	// domain.ErrNotFound when the notification does not exist for that user.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// pgNotificationRepo is the Postgres implementation of NotificationRepo.
type pgNotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) NotificationRepo {
	return &pgNotificationRepo{db: db}
}

func (r *pgNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	const q = `
		INSERT INTO notifications (user_id, title, message, type, link)
		VALUES (@user_id, @title, @message, @type, @link)
		RETURNING id, user_id, title, message, type, link, is_read, created_at`

	args := pgx.NamedArgs{
		"user_id": n.UserID,
		"title":   n.Title,
		"message": n.Message,
		"type":    n.Type,
		"link":    n.Link,
	}

	result, err := scanNotification(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		INSERT INTO activities (message, type)
		VALUES (@message, @type)
		RETURNING id, message, type, created_at`

	var (
		out domain.Activity
		id  pgtype.UUID
	)
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"message": a.Message, "type": a.Type})
	if err := row.Scan(&id, &out.Message, &out.Type, &out.CreatedAt); err != nil {
		return domain.Activity{}, fmt.Errorf("repo.NotificationRepo.CreateActivity: %w", err)
	}
	out.ID = uuid.UUID(id.Bytes)
	return out, nil
}

func (r *pgNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	const q = `
		SELECT id, user_id, title, message, type, link, is_read, created_at
		FROM notifications
		WHERE user_id = @user_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.NotificationRepo.ListByUser: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.ListByUser: rows: %w", err)
	}

	return out, nil
}

func (r *pgNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	const q = `SELECT count(*) FROM notifications WHERE user_id = @user_id AND NOT is_read`

	var count int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}).Scan(&count); err != nil {
		return 0, fmt.Errorf("repo.NotificationRepo.UnreadCount: %w", err)
	}
	return count, nil
}

func (r *pgNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	const q = `UPDATE notifications SET is_read = true WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.NotificationRepo.MarkRead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NotificationRepo.MarkRead: %w", domain.ErrNotFound)
	}
	return nil
}

// scanNotification maps a single database row into a domain.Notification.
func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n      domain.Notification
		id     pgtype.UUID
		userID pgtype.UUID
	)

	err := s.Scan(&id, &userID, &n.Title, &n.Message, &n.Type, &n.Link, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Notification{}, domain.ErrNotFound
		}
		return domain.Notification{}, err
	}

	n.ID = uuid.UUID(id.Bytes)
	n.UserID = uuid.UUID(userID.Bytes)
	return n, nil
}
