package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"
)

type CommentService struct{}

func NewCommentService() *CommentService {
	return &CommentService{}
}

// Create добавляет комментарий к посту. Счетчик комментариев в кеше ленты
// патчится оптимистично и откатывается при ошибке записи. Комментарий к
// чужому посту создает владельцу уведомление.
func (cs *CommentService) Create(ctx context.Context, userID, postID int64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("comment content is empty")
	}

	var post models.Post
	if err := db.GetReadOnlyDB(ctx).First(&post, postID).Error; err != nil {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
	}

	patched := FeedCacheInstance.PatchCounters(ctx, postID, 0, +1)
	comment := &models.Comment{
		UserID:    userID,
		PostID:    postID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(comment).Error; err != nil {
		if patched {
			FeedCacheInstance.PatchCounters(ctx, postID, 0, -1)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	if post.UserID != userID {
		notifyErr := NewNotificationService().Create(ctx, models.Notification{
			UserID:  post.UserID,
			ActorID: userID,
			Type:    models.NotificationComment,
			PostID:  &postID,
		})
		if notifyErr != nil {
			log.Printf("ERROR: Failed to create comment notification for post %d: %v", postID, notifyErr)
		}
	}

	return comment, nil
}

// List возвращает комментарии поста в порядке создания с данными авторов
func (cs *CommentService) List(ctx context.Context, postID int64) ([]models.CommentView, error) {
	var comments []models.CommentView
	err := db.GetReadOnlyDB(ctx).
		Table("comments").
		Select(`comments.id, comments.user_id, profiles.username, profiles.avatar_url,
			comments.post_id, comments.content, comments.created_at`).
		Joins("JOIN profiles ON profiles.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
