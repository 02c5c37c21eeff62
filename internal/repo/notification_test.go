package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asandov/tripmarket/internal/domain"
	"github.com/asandov/tripmarket/internal/repo"
)

func TestNotificationRepo_CreateAndList(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewNotificationRepo(tx)
	ctx := context.Background()

	user := mustCreateUser(t, tx, userFixture())

	created, err := r.Create(ctx, domain.Notification{
		UserID:  user.ID,
		Title:   "New Booking",
		Message: "A new booking needs review.",
		Type:    domain.NotificationBooking,
		Link:    "/admin/bookings",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.IsRead)

	got, err := r.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New Booking", got[0].Title)
	assert.Equal(t, domain.NotificationBooking, got[0].Type)
}

func TestNotificationRepo_CreateActivity(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewNotificationRepo(tx)
	ctx := context.Background()

	got, err := r.CreateActivity(ctx, domain.Activity{
		Message: "New booking recorded",
		Type:    domain.NotificationBooking,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestNotificationRepo_UnreadCountAndMarkRead(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewNotificationRepo(tx)
	ctx := context.Background()

	user := mustCreateUser(t, tx, userFixture())

	first, err := r.Create(ctx, domain.Notification{UserID: user.ID, Title: "one"})
	require.NoError(t, err)
	_, err = r.Create(ctx, domain.Notification{UserID: user.ID, Title: "two"})
	require.NoError(t, err)

	count, err := r.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, r.MarkRead(ctx, first.ID, user.ID))

	count, err = r.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationRepo_MarkRead_ScopedToOwner(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewNotificationRepo(tx)
	ctx := context.Background()

	owner := mustCreateUser(t, tx, userFixture())
	stranger := mustCreateUser(t, tx, userFixture())

	n, err := r.Create(ctx, domain.Notification{UserID: owner.ID, Title: "private"})
	require.NoError(t, err)

	err = r.MarkRead(ctx, n.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "foreign notification reads back as missing")

	count, err := r.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "the owner's notification stays unread")
}
