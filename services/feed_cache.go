package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"

	"github.com/go-redis/redis/v8"
)

const (
	FEED_CACHE_TTL  = 24 * time.Hour // TTL для кеша ленты
	MAX_FEED_SIZE   = 1000           // Максимальное количество постов в ленте
	FEED_KEY        = "feed:global"  // Общая лента (sorted set, score = created_at)
	POST_KEY_PREFIX = "post:"        // Префикс для кеша постов
)

// FeedCache - кешируемое зеркало ленты в Redis. Это "локальное состояние"
// движка: мутации (лайк, архив, удаление) применяются к нему немедленно,
// до подтверждения БД, и откатываются при ошибке записи. БД остается
// источником истины при следующем полном чтении.
type FeedCache struct{}

var FeedCacheInstance = &FeedCache{}

func postKey(postID int64) string {
	return fmt.Sprintf("%s%d", POST_KEY_PREFIX, postID)
}

// blobTTL ограничивает TTL кешированного поста временем его жизни,
// чтобы кеш не мог пережить видимость
func blobTTL(item *models.FeedItem, now time.Time) (time.Duration, bool) {
	ttl := FEED_CACHE_TTL
	if item.ExpiresAt != nil {
		until := item.ExpiresAt.Sub(now)
		if until <= 0 {
			return 0, false
		}
		if until < ttl {
			ttl = until
		}
	}
	return ttl, true
}

// GetFeed читает страницу ленты из кеша. Протухшие записи (истекший TTL
// блоба или сработавший предикат видимости) вычищаются по пути.
func (fc *FeedCache) GetFeed(ctx context.Context, viewerID int64, lastID int64, limit int) ([]models.FeedItem, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("redis not available")
	}

	var start, stop int64 = 0, int64(limit - 1)
	if lastID > 0 {
		rank, err := RedisClient.ZRevRank(ctx, FEED_KEY, strconv.FormatInt(lastID, 10)).Result()
		if err != nil {
			return nil, err
		}
		start = rank + 1
		stop = start + int64(limit) - 1
	}

	postIDs, err := RedisClient.ZRevRange(ctx, FEED_KEY, start, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(postIDs) == 0 {
		return []models.FeedItem{}, nil
	}

	pipe := RedisClient.Pipeline()
	cmds := make([]*redis.StringCmd, len(postIDs))
	for i, postID := range postIDs {
		cmds[i] = pipe.Get(ctx, POST_KEY_PREFIX+postID)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	now := time.Now()
	var feedPosts []models.FeedItem
	var stale []interface{}
	for i, cmd := range cmds {
		val, err := cmd.Result()
		if err == redis.Nil {
			stale = append(stale, postIDs[i])
			continue
		}
		if err != nil {
			continue
		}

		var item models.FeedItem
		if err := json.Unmarshal([]byte(val), &item); err != nil {
			continue
		}
		if !visibleItemAt(&item, now) {
			stale = append(stale, postIDs[i])
			continue
		}
		feedPosts = append(feedPosts, item)
	}

	if len(stale) > 0 {
		RedisClient.ZRem(ctx, FEED_KEY, stale...)
	}

	fc.fillLiked(ctx, viewerID, feedPosts)
	return feedPosts, nil
}

// visibleItemAt применяет предикат видимости поста к кешированной записи
func visibleItemAt(item *models.FeedItem, now time.Time) bool {
	p := models.Post{ExpiresAt: item.ExpiresAt}
	return p.VisibleAt(now)
}

// fillLiked проставляет флаг лайка запрашивающего для страницы из кеша.
// Блобы общие для всех, поэтому персональный флаг добирается одним
// запросом по индексу (user_id, post_id).
func (fc *FeedCache) fillLiked(ctx context.Context, viewerID int64, posts []models.FeedItem) {
	if viewerID == 0 || len(posts) == 0 || db.ORM == nil {
		return
	}
	ids := make([]int64, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	var likedIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Pluck("post_id", &likedIDs).Error
	if err != nil {
		log.Printf("ERROR: Failed to load liked set for user %d: %v", viewerID, err)
		return
	}
	liked := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	for i := range posts {
		posts[i].Liked = liked[posts[i].ID]
	}
}

// CacheFeed кеширует страницу ленты
func (fc *FeedCache) CacheFeed(ctx context.Context, posts []models.FeedItem) {
	if len(posts) == 0 || RedisClient == nil {
		return
	}

	now := time.Now()
	pipe := RedisClient.Pipeline()
	for _, post := range posts {
		ttl, ok := blobTTL(&post, now)
		if !ok {
			continue
		}
		post.Liked = false // блоб общий, персональных полей в нем нет
		pipe.ZAdd(ctx, FEED_KEY, &redis.Z{
			Score:  float64(post.CreatedAt.Unix()),
			Member: strconv.FormatInt(post.ID, 10),
		})
		postData, _ := json.Marshal(post)
		pipe.Set(ctx, postKey(post.ID), postData, ttl)
	}

	pipe.ZRemRangeByRank(ctx, FEED_KEY, 0, -MAX_FEED_SIZE-1)
	pipe.Expire(ctx, FEED_KEY, FEED_CACHE_TTL)
	pipe.Exec(ctx)
}

// AddPost добавляет один новый пост в кеш ленты
func (fc *FeedCache) AddPost(ctx context.Context, item models.FeedItem) {
	if RedisClient == nil {
		return
	}
	ttl, ok := blobTTL(&item, time.Now())
	if !ok {
		return
	}
	item.Liked = false

	pipe := RedisClient.Pipeline()
	pipe.ZAdd(ctx, FEED_KEY, &redis.Z{
		Score:  float64(item.CreatedAt.Unix()),
		Member: strconv.FormatInt(item.ID, 10),
	})
	postData, err := json.Marshal(item)
	if err != nil {
		log.Println("failed to marshal post for caching:", err)
		return
	}
	pipe.Set(ctx, postKey(item.ID), postData, ttl)
	pipe.ZRemRangeByRank(ctx, FEED_KEY, 0, -MAX_FEED_SIZE-1)
	pipe.Expire(ctx, FEED_KEY, FEED_CACHE_TTL)
	pipe.Exec(ctx)
}

// RemovePost немедленно убирает пост из кешированной ленты
// (вызывается из архивирования и удаления, до какого-либо refetch)
func (fc *FeedCache) RemovePost(ctx context.Context, postID int64) {
	if RedisClient == nil {
		return
	}
	pipe := RedisClient.Pipeline()
	pipe.ZRem(ctx, FEED_KEY, strconv.FormatInt(postID, 10))
	pipe.Del(ctx, postKey(postID))
	pipe.Exec(ctx)
}

// PatchCounters - оптимистичный локальный патч счетчиков кешированного
// поста (deltaLikes/deltaComments могут быть отрицательными). Возвращает
// true, если блоб существовал и был изменен: вызывающий обязан откатить
// патч обратным вызовом, если подтверждающая запись в БД не прошла.
func (fc *FeedCache) PatchCounters(ctx context.Context, postID int64, deltaLikes, deltaComments int64) bool {
	if RedisClient == nil {
		return false
	}
	key := postKey(postID)
	val, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	var item models.FeedItem
	if err := json.Unmarshal([]byte(val), &item); err != nil {
		return false
	}
	item.LikesCount += deltaLikes
	item.CommentsCount += deltaComments
	if item.LikesCount < 0 {
		item.LikesCount = 0
	}
	if item.CommentsCount < 0 {
		item.CommentsCount = 0
	}

	ttl, err := RedisClient.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = FEED_CACHE_TTL
	}
	postData, _ := json.Marshal(item)
	if err := RedisClient.Set(ctx, key, postData, ttl).Err(); err != nil {
		return false
	}
	return true
}

// InvalidateFeed сбрасывает кеш ленты целиком
func (fc *FeedCache) InvalidateFeed(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not available")
	}
	return RedisClient.Del(ctx, FEED_KEY).Err()
}
