package services

import (
	"testing"
	"tradeos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUserEmail(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	authService := NewAuthService(cfg)
	userService := NewUserService(cfg)

	alice := registerActiveUser(t, authService, "alice", "secret1")
	registerActiveUser(t, authService, "bob", "secret1")

	t.Run("taken email is rejected", func(t *testing.T) {
		email := "bob@example.com"
		_, err := userService.UpdateUser(alice.ID, UserUpdate{Email: &email})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("fresh email is accepted", func(t *testing.T) {
		email := "alice-new@example.com"
		updated, err := userService.UpdateUser(alice.ID, UserUpdate{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, email, updated.Email)
	})

	t.Run("db failure surfaces as an error, not as no duplicate", func(t *testing.T) {
		sqlDB, err := models.DB.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		email := "unreachable@example.com"
		_, err = userService.UpdateUser(alice.ID, UserUpdate{Email: &email})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserExists)
	})
}
