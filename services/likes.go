package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"
)

type LikeService struct{}

func NewLikeService() *LikeService {
	return &LikeService{}
}

// ToggleLike переключает лайк пользователя на посте и возвращает новое
// состояние. Мутация оптимистичная: счетчик в кеше ленты патчится до
// записи в БД и откатывается, если запись не прошла. Двойной вызов
// возвращает исходное состояние и счетчик.
func (ls *LikeService) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	var post models.Post
	if err := db.GetReadOnlyDB(ctx).First(&post, postID).Error; err != nil {
		return false, fmt.Errorf("%w: post %d", ErrNotFound, postID)
	}

	var liked int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&liked).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like state: %w", err)
	}

	if liked > 0 {
		// Снимаем лайк. Уведомление при этом не создается и не удаляется.
		patched := FeedCacheInstance.PatchCounters(ctx, postID, -1, 0)
		err = db.GetWriteDB(ctx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{}).Error
		if err != nil {
			if patched {
				FeedCacheInstance.PatchCounters(ctx, postID, +1, 0)
			}
			return true, fmt.Errorf("failed to remove like: %w", err)
		}
		return false, nil
	}

	// Ставим лайк
	patched := FeedCacheInstance.PatchCounters(ctx, postID, +1, 0)
	like := &models.Like{UserID: userID, PostID: postID, CreatedAt: time.Now()}
	if err := db.GetWriteDB(ctx).Create(like).Error; err != nil {
		if patched {
			FeedCacheInstance.PatchCounters(ctx, postID, -1, 0)
		}
		return false, fmt.Errorf("failed to create like: %w", err)
	}

	// Уведомление владельцу, лайк собственного поста его не создает
	if post.UserID != userID {
		notifyErr := NewNotificationService().Create(ctx, models.Notification{
			UserID:  post.UserID,
			ActorID: userID,
			Type:    models.NotificationLike,
			PostID:  &postID,
		})
		if notifyErr != nil {
			log.Printf("ERROR: Failed to create like notification for post %d: %v", postID, notifyErr)
		}
	}

	return true, nil
}
