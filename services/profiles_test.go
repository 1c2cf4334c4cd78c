package services

import (
	"strings"
	"testing"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"

	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)
	ps := NewProfileService()

	updated, err := ps.Update(testCtx(), userID, "new_name", "my bio", nil)
	require.NoError(t, err)
	require.Equal(t, "new_name", updated.Username)
	require.Equal(t, "my bio", updated.Bio)

	// Аватар загружается в хранилище, профиль получает его URL
	withAvatar, err := ps.Update(testCtx(), userID, "", "my bio", []byte("jpeg-bytes"))
	require.NoError(t, err)
	require.True(t, strings.Contains(withAvatar.AvatarURL, BucketAvatars))
	require.Equal(t, "new_name", withAvatar.Username)
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)
	otherID := createTestUser(t)

	var other models.Profile
	require.NoError(t, db.ORM.First(&other, otherID).Error)

	_, err := NewProfileService().Update(testCtx(), userID, other.Username, "", nil)
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSearchProfiles(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)
	ps := NewProfileService()

	require.NoError(t, db.ORM.Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("username", "wanderer_42").Error)

	profiles, err := ps.Search(testCtx(), "wanderer", 20)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, userID, profiles[0].ID)

	profiles, err = ps.Search(testCtx(), "no_such_name", 20)
	require.NoError(t, err)
	require.Empty(t, profiles)
}
