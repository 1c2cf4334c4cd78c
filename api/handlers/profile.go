package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/mooehassan23-rgb/Loopin/services"

	"github.com/gin-gonic/gin"
)

var profileService = services.NewProfileService()
var followService = services.NewFollowService()

func userIDParam(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return userID, true
}

// GetProfile возвращает профиль пользователя вместе с постами,
// счетчиками подписок и признаком is_following для текущего зрителя.
// Доступен без токена: гость видит профиль с is_following = false.
func GetProfile(c *gin.Context) {
	viewerID := optionalUserID(c)
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	profile, err := profileService.Get(ctx, userID)
	if err != nil {
		serviceError(c, err, "Failed to get profile")
		return
	}

	posts, err := postService.GetUserPosts(ctx, userID, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get posts"})
		return
	}

	followers, err := followService.CountFollowers(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count followers"})
		return
	}
	following, err := followService.CountFollowing(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count following"})
		return
	}

	isFollowing := false
	if viewerID != 0 && viewerID != userID {
		isFollowing, err = followService.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check follow status"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":         profile,
		"posts":           posts,
		"followers_count": followers,
		"following_count": following,
		"is_following":    isFollowing,
	})
}

// UpdateProfile обновляет собственный профиль: username, bio и
// опциональный новый аватар из multipart-формы
func UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	username := c.PostForm("username")
	bio := c.PostForm("bio")

	var avatar []byte
	if fileHeader, err := c.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read avatar"})
			return
		}
		defer file.Close()
		avatar, err = io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read avatar"})
			return
		}
	}

	profile, err := profileService.Update(c.Request.Context(), userID, username, bio, avatar)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
			return
		}
		serviceError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ToggleFollow переключает подписку текущего пользователя на другого
func ToggleFollow(c *gin.Context) {
	followerID, ok := currentUserID(c)
	if !ok {
		return
	}
	followingID, ok := userIDParam(c)
	if !ok {
		return
	}

	following, err := followService.ToggleFollow(c.Request.Context(), followerID, followingID)
	if err != nil {
		if errors.Is(err, services.ErrSelfFollow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
			return
		}
		serviceError(c, err, "Failed to toggle follow")
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}
