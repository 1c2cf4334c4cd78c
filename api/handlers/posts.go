package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/mooehassan23-rgb/Loopin/api/middleware"
	"github.com/mooehassan23-rgb/Loopin/models"
	"github.com/mooehassan23-rgb/Loopin/services"

	"github.com/gin-gonic/gin"
)

var postService = services.NewPostService()
var likeService = services.NewLikeService()

// CreatePost создает пост из multipart-формы: файл image, подпись caption,
// селектор длительности duration (0, 24 или 48 часов), флаг is_3d
func CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}

	caption := c.PostForm("caption")
	is3D := c.PostForm("is_3d") == "true"
	duration := 0
	if durationStr := c.PostForm("duration"); durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duration"})
			return
		}
	}
	switch duration {
	case models.DurationPermanent, models.DurationDay, models.DurationTwoDays:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must be 0, 24 or 48 hours"})
		return
	}

	post, err := postService.CreatePost(c.Request.Context(), userID, image, caption, is3D, duration)
	middleware.RecordPostOperation("create", err)
	if err != nil {
		serviceError(c, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetFeed получает общую ленту активных постов
func GetFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var lastID int64 = 0
	var limit int = 20
	if lastIDStr := c.Query("last_id"); lastIDStr != "" {
		if parsed, err := strconv.ParseInt(lastIDStr, 10, 64); err == nil {
			lastID = parsed
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	feed, err := postService.GetFeed(c.Request.Context(), userID, lastID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feed"})
		return
	}

	c.JSON(http.StatusOK, feed)
}

func postIDParam(c *gin.Context) (int64, bool) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return 0, false
	}
	return postID, true
}

// ArchivePost прячет пост владельца из всех листингов
func ArchivePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	err := postService.ArchivePost(c.Request.Context(), userID, postID)
	middleware.RecordPostOperation("archive", err)
	if err != nil {
		serviceError(c, err, "Failed to archive post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post archived successfully"})
}

// DeletePost удаляет пост навсегда
func DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	err := postService.DeletePost(c.Request.Context(), userID, postID)
	middleware.RecordPostOperation("delete", err)
	if err != nil {
		serviceError(c, err, "Failed to delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// ToggleLike переключает лайк на посте
func ToggleLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	liked, err := likeService.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		serviceError(c, err, "Failed to toggle like")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// InvalidateFeedCache сбрасывает кеш ленты (админский эндпоинт)
func InvalidateFeedCache(c *gin.Context) {
	if err := services.FeedCacheInstance.InvalidateFeed(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invalidate cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cache invalidated successfully"})
}

// GetQueueStats возвращает статистику очереди (админский эндпоинт)
func GetQueueStats(c *gin.Context) {
	if services.QueueServiceInstance == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Queue service not available"})
		return
	}

	queueLength, err := services.QueueServiceInstance.GetQueueStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get queue stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queue_length": queueLength,
		"workers":      services.QUEUE_WORKER_COUNT,
	})
}
