package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"
)

const FOLLOWERS_CNT_PREFIX = "followers_cnt:" // Кеш счетчика подписчиков

type FollowService struct{}

func NewFollowService() *FollowService {
	return &FollowService{}
}

func followersCntKey(userID int64) string {
	return fmt.Sprintf("%s%d", FOLLOWERS_CNT_PREFIX, userID)
}

// adjustFollowersCounter патчит кешированный счетчик подписчиков на delta.
// Патчится только существующий ключ: холодный счетчик наполняется из БД
// при чтении. Возвращает true, если патч был применен (и подлежит откату
// при ошибке записи в БД).
func adjustFollowersCounter(ctx context.Context, userID int64, delta int64) bool {
	if RedisClient == nil {
		return false
	}
	exists, err := RedisClient.Exists(ctx, followersCntKey(userID)).Result()
	if err != nil || exists == 0 {
		return false
	}
	return RedisClient.IncrBy(ctx, followersCntKey(userID), delta).Err() == nil
}

// ToggleFollow переключает подписку followerID на followingID и возвращает
// новое состояние. Та же оптимистичная схема, что и у лайков: счетчик
// подписчиков правится на +-1 до записи и откатывается при ее ошибке.
func (fs *FollowService) ToggleFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	var existing int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&existing).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow state: %w", err)
	}

	if existing > 0 {
		// Отписка, уведомление не создается
		patched := adjustFollowersCounter(ctx, followingID, -1)
		err = db.GetWriteDB(ctx).
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follower{}).Error
		if err != nil {
			if patched {
				adjustFollowersCounter(ctx, followingID, +1)
			}
			return true, fmt.Errorf("failed to unfollow: %w", err)
		}
		return false, nil
	}

	// Подписка
	patched := adjustFollowersCounter(ctx, followingID, +1)
	follow := &models.Follower{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(follow).Error; err != nil {
		if patched {
			adjustFollowersCounter(ctx, followingID, -1)
		}
		return false, fmt.Errorf("failed to follow: %w", err)
	}

	notifyErr := NewNotificationService().Create(ctx, models.Notification{
		UserID:  followingID,
		ActorID: followerID,
		Type:    models.NotificationFollow,
	})
	if notifyErr != nil {
		log.Printf("ERROR: Failed to create follow notification for user %d: %v", followingID, notifyErr)
	}

	return true, nil
}

// IsFollowing проверяет наличие подписки
func (fs *FollowService) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow state: %w", err)
	}
	return count > 0, nil
}

// CountFollowers возвращает число подписчиков, кешируя его в Redis
func (fs *FollowService) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	if RedisClient != nil {
		if val, err := RedisClient.Get(ctx, followersCntKey(userID)).Result(); err == nil {
			if count, err := strconv.ParseInt(val, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follower{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}

	if RedisClient != nil {
		RedisClient.Set(ctx, followersCntKey(userID), count, FEED_CACHE_TTL)
	}
	return count, nil
}

// CountFollowing возвращает число подписок пользователя
func (fs *FollowService) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follower{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return count, nil
}
