package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mooehassan23-rgb/Loopin/api/middleware"
	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"
	"github.com/mooehassan23-rgb/Loopin/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, db.ConnectSQLite(":memory:"))
	services.Storage = services.NewStorageService(t.TempDir(), "http://localhost:8080/media")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/auth/register", Register)
	r.POST("/api/v1/auth/login", Login)

	guest := r.Group("/api/v1/")
	guest.Use(middleware.OptionalAuthMiddleware())
	{
		guest.GET("users/:user_id/profile", GetProfile)
	}

	protected := r.Group("/api/v1/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("posts", CreatePost)
		protected.GET("feed", GetFeed)
		protected.POST("posts/:post_id/like", ToggleLike)
		protected.POST("posts/:post_id/archive", ArchivePost)
	}
	return r
}

// registerAndLogin создает пользователя через API и возвращает токен и ID
func registerAndLogin(t *testing.T, r *gin.Engine, email, username string) (string, int64) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email": email, "username": username, "password": "secret123",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	body, _ = json.Marshal(map[string]string{"email": email, "password": "secret123"})
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token  string `json:"token"`
		UserID int64  `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.UserID
}

func createPostRequest(t *testing.T, token, caption, duration string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("caption", caption))
	require.NoError(t, mw.WriteField("duration", duration))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/api/v1/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthRequired(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/feed", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePostAndFeed(t *testing.T) {
	r := setupRouter(t)
	token, userID := registerAndLogin(t, r, "alice@example.com", "alice")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, createPostRequest(t, token, "hello world", "24"))
	require.Equal(t, http.StatusCreated, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	require.Equal(t, userID, post.UserID)
	require.NotNil(t, post.ExpiresAt)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var feed models.FeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed.Posts, 1)
	require.Equal(t, post.ID, feed.Posts[0].ID)
	require.Equal(t, "alice", feed.Posts[0].Username)
}

func TestCreatePostInvalidDuration(t *testing.T) {
	r := setupRouter(t)
	token, _ := registerAndLogin(t, r, "bob@example.com", "bob")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, createPostRequest(t, token, "hello", "12"))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleLikeEndpoint(t *testing.T) {
	r := setupRouter(t)
	aliceToken, _ := registerAndLogin(t, r, "alice@example.com", "alice")
	bobToken, _ := registerAndLogin(t, r, "bob@example.com", "bob")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, createPostRequest(t, aliceToken, "likeable", "0"))
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/posts/%d/like", post.ID), nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp["liked"])
}

func TestArchiveForbiddenForStranger(t *testing.T) {
	r := setupRouter(t)
	aliceToken, _ := registerAndLogin(t, r, "alice@example.com", "alice")
	bobToken, _ := registerAndLogin(t, r, "bob@example.com", "bob")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, createPostRequest(t, aliceToken, "mine", "0"))
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/posts/%d/archive", post.ID), nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetProfileResponse(t *testing.T) {
	r := setupRouter(t)
	aliceToken, aliceID := registerAndLogin(t, r, "alice@example.com", "alice")
	_, bobID := registerAndLogin(t, r, "bob@example.com", "bob")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, createPostRequest(t, aliceToken, "profile post", "0"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/users/%d/profile", aliceID), nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Profile        models.Profile    `json:"profile"`
		Posts          []models.FeedItem `json:"posts"`
		FollowersCount int64             `json:"followers_count"`
		IsFollowing    bool              `json:"is_following"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.Profile.Username)
	require.Len(t, resp.Posts, 1)
	require.Zero(t, resp.FollowersCount)
	require.False(t, resp.IsFollowing)
	require.NotZero(t, bobID)
}

func TestGetProfileAsGuest(t *testing.T) {
	r := setupRouter(t)
	aliceToken, aliceID := registerAndLogin(t, r, "alice@example.com", "alice")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, createPostRequest(t, aliceToken, "public post", "0"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Профиль читается без токена
	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/users/%d/profile", aliceID), nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Profile     models.Profile    `json:"profile"`
		Posts       []models.FeedItem `json:"posts"`
		IsFollowing bool              `json:"is_following"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.Profile.Username)
	require.Len(t, resp.Posts, 1)
	require.False(t, resp.IsFollowing)
	require.False(t, resp.Posts[0].Liked)
}
