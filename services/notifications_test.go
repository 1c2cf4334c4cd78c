package services

import (
	"testing"

	"github.com/mooehassan23-rgb/Loopin/models"

	"github.com/stretchr/testify/require"
)

func TestNotificationsListAndMarkRead(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)
	actorID := createTestUser(t)
	ns := NewNotificationService()

	post := createTestPost(t, userID, 0)
	require.NoError(t, ns.Create(testCtx(), models.Notification{
		UserID: userID, ActorID: actorID, Type: models.NotificationLike, PostID: &post.ID,
	}))
	require.NoError(t, ns.Create(testCtx(), models.Notification{
		UserID: userID, ActorID: actorID, Type: models.NotificationFollow,
	}))

	count, err := ns.CountUnread(testCtx(), userID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	items, err := ns.List(testCtx(), userID, 50)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotEmpty(t, items[0].ActorUsername)

	// Открытие списка гасит все непрочитанные разом
	require.NoError(t, ns.MarkAllRead(testCtx(), userID))

	count, err = ns.CountUnread(testCtx(), userID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestNotificationsScopedToRecipient(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)
	otherID := createTestUser(t)
	ns := NewNotificationService()

	require.NoError(t, ns.Create(testCtx(), models.Notification{
		UserID: userID, ActorID: otherID, Type: models.NotificationFollow,
	}))

	items, err := ns.List(testCtx(), otherID, 50)
	require.NoError(t, err)
	require.Empty(t, items)
}
