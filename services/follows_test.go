package services

import (
	"testing"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"

	"github.com/stretchr/testify/require"
)

func TestToggleFollow(t *testing.T) {
	setupTestDB(t)
	followerID := createTestUser(t)
	followingID := createTestUser(t)
	fs := NewFollowService()

	following, err := fs.ToggleFollow(testCtx(), followerID, followingID)
	require.NoError(t, err)
	require.True(t, following)

	isFollowing, err := fs.IsFollowing(testCtx(), followerID, followingID)
	require.NoError(t, err)
	require.True(t, isFollowing)

	count, err := fs.CountFollowers(testCtx(), followingID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// Повторный вызов снимает подписку
	following, err = fs.ToggleFollow(testCtx(), followerID, followingID)
	require.NoError(t, err)
	require.False(t, following)

	count, err = fs.CountFollowers(testCtx(), followingID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestToggleFollowSelf(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)

	_, err := NewFollowService().ToggleFollow(testCtx(), userID, userID)
	require.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowNotification(t *testing.T) {
	setupTestDB(t)
	followerID := createTestUser(t)
	followingID := createTestUser(t)
	fs := NewFollowService()

	_, err := fs.ToggleFollow(testCtx(), followerID, followingID)
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, db.ORM.Where("user_id = ?", followingID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationFollow, notifications[0].Type)
	require.Equal(t, followerID, notifications[0].ActorID)
	require.Nil(t, notifications[0].PostID)

	// Отписка уведомление не создает
	_, err = fs.ToggleFollow(testCtx(), followerID, followingID)
	require.NoError(t, err)

	var count int64
	db.ORM.Model(&models.Notification{}).Where("user_id = ?", followingID).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestCountFollowing(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)
	a := createTestUser(t)
	b := createTestUser(t)
	fs := NewFollowService()

	_, err := fs.ToggleFollow(testCtx(), userID, a)
	require.NoError(t, err)
	_, err = fs.ToggleFollow(testCtx(), userID, b)
	require.NoError(t, err)

	count, err := fs.CountFollowing(testCtx(), userID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}
