package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// setupTestDB инициализирует тестовую базу данных SQLite в памяти
func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, db.ConnectSQLite(":memory:"))
	Storage = NewStorageService(t.TempDir(), "http://localhost:8080/media")
}

// createTestUser создает пользователя с профилем и возвращает его ID
func createTestUser(t *testing.T) int64 {
	t.Helper()
	name := strings.ToLower(gofakeit.FirstName())
	username := fmt.Sprintf("%s_%s", name, gofakeit.Numerify("######"))
	user := &models.User{
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "irrelevant",
	}
	require.NoError(t, db.ORM.Create(user).Error)
	profile := &models.Profile{ID: user.ID, Username: username}
	require.NoError(t, db.ORM.Create(profile).Error)
	return user.ID
}

// createTestPost вставляет пост напрямую. expiresIn управляет временем
// жизни: 0 - бессрочный пост, иначе expires_at = now + expiresIn
// (отрицательное значение дает уже истекший пост).
func createTestPost(t *testing.T, userID int64, expiresIn time.Duration) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:    userID,
		ImageURL:  fmt.Sprintf("http://localhost:8080/media/posts/%d/%d.jpg", userID, gofakeit.Number(1, 1<<30)),
		Caption:   gofakeit.Sentence(4),
		CreatedAt: time.Now(),
	}
	if expiresIn != 0 {
		expiresAt := time.Now().Add(expiresIn)
		post.ExpiresAt = &expiresAt
	}
	require.NoError(t, db.ORM.Create(post).Error)
	return post
}

// setupTestRedis поднимает миниатюрный Redis в памяти и подключает к нему
// глобальный клиент на время теста
func setupTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = RedisClient.Close()
		RedisClient = nil
	})
}

// blockWrites ставит триггер, проваливающий операцию op ("INSERT"/"DELETE")
// на таблице. Возвращает функцию снятия триггера; используется для проверки
// отката оптимистичных патчей при ошибке записи в БД.
func blockWrites(t *testing.T, table, op string) func() {
	t.Helper()
	name := fmt.Sprintf("block_%s_%s", table, op)
	stmt := fmt.Sprintf(
		"CREATE TRIGGER %s BEFORE %s ON %s BEGIN SELECT RAISE(ABORT, 'write blocked'); END",
		name, op, table,
	)
	require.NoError(t, db.ORM.Exec(stmt).Error)
	drop := func() {
		require.NoError(t, db.ORM.Exec("DROP TRIGGER IF EXISTS "+name).Error)
	}
	t.Cleanup(drop)
	return drop
}

// cacheTestPost кладет пост в кеш ленты как это делает fanoutNewPost
func cacheTestPost(t *testing.T, post *models.Post) {
	t.Helper()
	FeedCacheInstance.AddPost(testCtx(), models.FeedItem{
		ID:        post.ID,
		UserID:    post.UserID,
		ImageURL:  post.ImageURL,
		Caption:   post.Caption,
		ExpiresAt: post.ExpiresAt,
		CreatedAt: post.CreatedAt,
	})
}

func testCtx() context.Context {
	return context.Background()
}
