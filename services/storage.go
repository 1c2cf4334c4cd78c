package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mooehassan23-rgb/Loopin/config"
)

const (
	BucketPosts   = "posts"
	BucketAvatars = "avatars"
)

// StorageService - локальное объектное хранилище с бакетами для изображений
// постов и аватаров. Ключ объекта: {userID}/{timestamp}.jpg, выдача - по
// стабильному публичному URL под public_base_url.
type StorageService struct {
	root          string
	publicBaseURL string
}

var Storage *StorageService

func InitStorage() error {
	if config.AppConfig == nil {
		return fmt.Errorf("AppConfig is not loaded")
	}
	s := &StorageService{
		root:          config.AppConfig.Storage.Root,
		publicBaseURL: strings.TrimRight(config.AppConfig.Storage.PublicBaseURL, "/"),
	}
	for _, bucket := range []string{BucketPosts, BucketAvatars} {
		if err := os.MkdirAll(filepath.Join(s.root, bucket), 0o755); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}
	Storage = s
	return nil
}

func NewStorageService(root, publicBaseURL string) *StorageService {
	return &StorageService{root: root, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Root возвращает корневую директорию хранилища (для раздачи статики)
func (s *StorageService) Root() string {
	return s.root
}

// Upload сохраняет файл в бакет и возвращает его публичный URL.
// Запись поста создается только после успешного возврата отсюда.
func (s *StorageService) Upload(bucket string, userID int64, data []byte) (string, error) {
	key := fmt.Sprintf("%d/%d.jpg", userID, time.Now().UnixMilli())
	path := filepath.Join(s.root, bucket, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, key), nil
}

// Remove удаляет объект по его публичному URL. Вызывается best-effort при
// удалении поста: ошибка логируется, но не прерывает операцию.
func (s *StorageService) Remove(publicURL string) {
	rel := strings.TrimPrefix(publicURL, s.publicBaseURL+"/")
	if rel == publicURL {
		// URL не из нашего хранилища
		return
	}
	path := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove stored asset %s: %v", rel, err)
	}
}
