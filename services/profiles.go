package services

import (
	"context"
	"fmt"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"
)

type ProfileService struct{}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// Get возвращает профиль пользователя
func (ps *ProfileService) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	var profile models.Profile
	if err := db.GetReadOnlyDB(ctx).First(&profile, userID).Error; err != nil {
		return nil, fmt.Errorf("%w: profile %d", ErrNotFound, userID)
	}
	return &profile, nil
}

// Update меняет профиль. Операция только для владельца (userID - вызывающий).
// Непустой avatar загружается в бакет аватаров, и профиль получает его URL.
func (ps *ProfileService) Update(ctx context.Context, userID int64, username, bio string, avatar []byte) (*models.Profile, error) {
	profile, err := ps.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(avatar) > 0 {
		if Storage == nil {
			return nil, fmt.Errorf("%w: storage not initialized", ErrUpload)
		}
		avatarURL, err := Storage.Upload(BucketAvatars, userID, avatar)
		if err != nil {
			return nil, err
		}
		profile.AvatarURL = avatarURL
	}

	if username != "" && username != profile.Username {
		var taken int64
		err := db.GetReadOnlyDB(ctx).
			Model(&models.Profile{}).
			Where("username = ? AND id != ?", username, userID).
			Count(&taken).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken > 0 {
			return nil, fmt.Errorf("%w: %q", ErrUsernameTaken, username)
		}
		profile.Username = username
	}
	profile.Bio = bio

	if err := db.GetWriteDB(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return profile, nil
}

// Search ищет профили по подстроке имени пользователя
func (ps *ProfileService) Search(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var profiles []models.Profile
	err := db.GetReadOnlyDB(ctx).
		Where("username LIKE ?", "%"+query+"%").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	return profiles, nil
}
