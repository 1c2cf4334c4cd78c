package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"

	"gorm.io/gorm"
)

type PostService struct{}

func NewPostService() *PostService {
	return &PostService{}
}

// CreatePost создает пост: сначала загружает изображение в хранилище,
// и только получив долговечный публичный URL, вставляет запись.
// durationHours - селектор времени жизни: 0 (бессрочно), 24 или 48 часов;
// expires_at вычисляется здесь по серверным часам и далее не изменяется.
func (ps *PostService) CreatePost(ctx context.Context, userID int64, image []byte, caption string, is3D bool, durationHours int) (*models.Post, error) {
	switch durationHours {
	case models.DurationPermanent, models.DurationDay, models.DurationTwoDays:
	default:
		return nil, fmt.Errorf("invalid duration: %d", durationHours)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUpload)
	}
	if Storage == nil {
		return nil, fmt.Errorf("%w: storage not initialized", ErrUpload)
	}

	imageURL, err := Storage.Upload(BucketPosts, userID, image)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var expiresAt *time.Time
	if durationHours > 0 {
		t := now.Add(time.Duration(durationHours) * time.Hour)
		expiresAt = &t
	}

	post := &models.Post{
		UserID:     userID,
		ImageURL:   imageURL,
		Caption:    caption,
		Is3D:       is3D,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		IsArchived: false,
	}

	if err := db.GetWriteDB(ctx).Create(post).Error; err != nil {
		// Файл уже загружен и остается сиротой, компенсирующего удаления нет
		log.Printf("ERROR: Failed to create post for user %d, orphaned asset %s: %v", userID, imageURL, err)
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	// Обновление кеша ленты и рассылка подписчикам - вне пути запроса
	if QueueServiceInstance != nil && RedisClient != nil {
		go QueueServiceInstance.EnqueueFeedUpdate(context.Background(), userID, *post, "create")
	} else {
		go ps.fanoutNewPost(context.Background(), post)
	}

	return post, nil
}

// feedQuery - единая сборка выборки активных постов: скоуп видимости,
// джойн профиля автора, счетчики лайков/комментариев и флаг лайка
// запрашивающего. Все листинги (лента, профили, поиск) идут через нее.
func (ps *PostService) feedQuery(ctx context.Context, viewerID int64, now time.Time) *gorm.DB {
	return db.GetReadOnlyDB(ctx).
		Table("posts").
		Select(`posts.id, posts.user_id, profiles.username, profiles.avatar_url,
			posts.image_url, posts.caption, posts.is_3d, posts.expires_at, posts.created_at,
			(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count,
			(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) > 0 AS liked`, viewerID).
		Joins("JOIN profiles ON profiles.id = posts.user_id").
		Scopes(models.ActivePosts(now))
}

// GetFeed - общая лента активных постов с keyset-пагинацией по id
func (ps *PostService) GetFeed(ctx context.Context, viewerID int64, lastID int64, limit int) (*models.FeedResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20 // Дефолтный лимит
	}

	// Пытаемся получить из кеша
	if feedPosts, err := FeedCacheInstance.GetFeed(ctx, viewerID, lastID, limit); err == nil && len(feedPosts) > 0 {
		return &models.FeedResponse{
			Posts:   feedPosts,
			HasMore: len(feedPosts) == limit,
			LastID:  getLastID(feedPosts),
		}, nil
	}

	query := ps.feedQuery(ctx, viewerID, time.Now()).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit)
	if lastID > 0 {
		query = query.Where("posts.id < ?", lastID)
	}

	var feedPosts []models.FeedItem
	if err := query.Scan(&feedPosts).Error; err != nil {
		return nil, fmt.Errorf("failed to get feed posts: %w", err)
	}

	// Кешируем результат
	go FeedCacheInstance.CacheFeed(context.Background(), feedPosts)

	return &models.FeedResponse{
		Posts:   feedPosts,
		HasMore: len(feedPosts) == limit,
		LastID:  getLastID(feedPosts),
	}, nil
}

// GetUserPosts - сетка постов профиля. Тот же предикат видимости, что и в
// ленте: архивные и истекшие посты не видны ни владельцу, ни гостю.
func (ps *PostService) GetUserPosts(ctx context.Context, ownerID, viewerID int64) ([]models.FeedItem, error) {
	var posts []models.FeedItem
	err := ps.feedQuery(ctx, viewerID, time.Now()).
		Where("posts.user_id = ?", ownerID).
		Order("posts.created_at DESC, posts.id DESC").
		Scan(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user posts: %w", err)
	}
	return posts, nil
}

// SearchPosts ищет активные посты по подстроке в подписи
func (ps *PostService) SearchPosts(ctx context.Context, viewerID int64, query string, limit int) ([]models.FeedItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var posts []models.FeedItem
	err := ps.feedQuery(ctx, viewerID, time.Now()).
		Where("posts.caption LIKE ?", "%"+query+"%").
		Order("posts.created_at DESC").
		Limit(limit).
		Scan(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	return posts, nil
}

// getOwnedPost загружает пост и проверяет, что им владеет userID
func (ps *PostService) getOwnedPost(ctx context.Context, userID, postID int64) (*models.Post, error) {
	var post models.Post
	if err := db.GetWriteDB(ctx).First(&post, postID).Error; err != nil {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
	}
	if post.UserID != userID {
		return nil, fmt.Errorf("%w: post %d is not owned by user %d", ErrForbidden, postID, userID)
	}
	return &post, nil
}

// ArchivePost прячет пост из всех листингов. Операция только для владельца,
// обратной операции (разархивирования) API не предоставляет.
func (ps *PostService) ArchivePost(ctx context.Context, userID, postID int64) error {
	post, err := ps.getOwnedPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	if err := db.GetWriteDB(ctx).Model(post).Update("is_archived", true).Error; err != nil {
		return fmt.Errorf("failed to archive post: %w", err)
	}

	// Пост убирается из кешированной ленты сразу, без refetch
	FeedCacheInstance.RemovePost(ctx, postID)
	return nil
}

// DeletePost удаляет пост навсегда вместе с зависимыми записями.
// Архивный пост остается удаляемым.
func (ps *PostService) DeletePost(ctx context.Context, userID, postID int64) error {
	post, err := ps.getOwnedPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	// Файл удаляем best-effort, запись уже удалена
	if Storage != nil {
		Storage.Remove(post.ImageURL)
	}

	FeedCacheInstance.RemovePost(ctx, postID)
	return nil
}

// fanoutNewPost - синхронный fallback, когда очередь недоступна:
// кеширует пост и рассылает событие подписчикам автора
func (ps *PostService) fanoutNewPost(ctx context.Context, post *models.Post) {
	var profile models.Profile
	if err := db.GetReadOnlyDB(ctx).First(&profile, post.UserID).Error; err != nil {
		log.Printf("ERROR: Failed to get author profile for post %d: %v", post.ID, err)
		return
	}

	item := models.FeedItem{
		ID:        post.ID,
		UserID:    post.UserID,
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
		ImageURL:  post.ImageURL,
		Caption:   post.Caption,
		Is3D:      post.Is3D,
		ExpiresAt: post.ExpiresAt,
		CreatedAt: post.CreatedAt,
	}
	FeedCacheInstance.AddPost(ctx, item)

	// Рассылаем подписчикам автора событие о новом посте
	var followerIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follower{}).
		Where("following_id = ?", post.UserID).
		Pluck("follower_id", &followerIDs).Error
	if err != nil {
		log.Printf("ERROR: Failed to get followers of user %d: %v", post.UserID, err)
		return
	}

	for _, followerID := range followerIDs {
		event := FeedEvent{
			UserID:    followerID,
			PostID:    post.ID,
			AuthorID:  post.UserID,
			ImageURL:  post.ImageURL,
			Caption:   post.Caption,
			CreatedAt: post.CreatedAt,
		}
		if err := PublishFeedEvent(ctx, event); err != nil {
			// RabbitMQ недоступен - шлем напрямую через WebSocket
			sendFeedEventWS(event)
		}
	}
}

func getLastID(posts []models.FeedItem) int64 {
	if len(posts) == 0 {
		return 0
	}
	return posts[len(posts)-1].ID
}
