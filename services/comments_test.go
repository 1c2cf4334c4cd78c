package services

import (
	"testing"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"

	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	setupTestDB(t)
	ownerID := createTestUser(t)
	commenterID := createTestUser(t)
	cs := NewCommentService()

	post := createTestPost(t, ownerID, 0)

	comment, err := cs.Create(testCtx(), commenterID, post.ID, "  great shot  ")
	require.NoError(t, err)
	require.Equal(t, "great shot", comment.Content)

	// Комментарий к чужому посту создает владельцу уведомление
	var notifications []models.Notification
	require.NoError(t, db.ORM.Where("user_id = ?", ownerID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationComment, notifications[0].Type)
}

func TestCreateCommentValidation(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)
	cs := NewCommentService()

	post := createTestPost(t, userID, 0)

	_, err := cs.Create(testCtx(), userID, post.ID, "   ")
	require.Error(t, err)

	_, err = cs.Create(testCtx(), userID, 999, "hello")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCommentsOrder(t *testing.T) {
	setupTestDB(t)
	ownerID := createTestUser(t)
	commenterID := createTestUser(t)
	cs := NewCommentService()

	post := createTestPost(t, ownerID, 0)

	first, err := cs.Create(testCtx(), commenterID, post.ID, "first")
	require.NoError(t, err)
	second, err := cs.Create(testCtx(), ownerID, post.ID, "second")
	require.NoError(t, err)

	comments, err := cs.List(testCtx(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, first.ID, comments[0].ID)
	require.Equal(t, second.ID, comments[1].ID)
	require.NotEmpty(t, comments[0].Username)
}
