package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}

// Register создает учетную запись и профиль в одной транзакции.
// Уникальность email и username обеспечивают индексы: конкурентная
// регистрация дубликата откатывается и приходит как ErrUserExists,
// предварительных check-then-act проверок нет.
func (as *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	if email == "" || username == "" || password == "" {
		return nil, fmt.Errorf("email, username and password are required")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Password: passwordHash}
	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile := &models.Profile{ID: user.ID, Username: username}
		return tx.Create(profile).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login проверяет пароль и выдает новый токен сессии
func (as *AuthService) Login(ctx context.Context, email, password string) (string, int64, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return "", 0, ErrInvalidCredentials
	}
	if !verifyPassword(user.Password, password) {
		return "", 0, ErrInvalidCredentials
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", 0, err
	}
	token := hex.EncodeToString(tokenBytes)

	err = db.GetWriteDB(ctx).Create(&models.UserTokens{
		UserID: user.ID,
		Token:  token,
	}).Error
	if err != nil {
		return "", 0, fmt.Errorf("failed to store token: %w", err)
	}
	return token, user.ID, nil
}

// Logout отзывает токен сессии
func (as *AuthService) Logout(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	return db.GetWriteDB(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.UserTokens{}).Error
}

// CheckToken возвращает ID пользователя по токену сессии
func (as *AuthService) CheckToken(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidCredentials
	}
	var stored models.UserTokens
	err := db.GetReadOnlyDB(ctx).Where("token = ?", token).First(&stored).Error
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	return stored.UserID, nil
}
