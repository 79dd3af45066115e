package services

import (
	"errors"
	"time"
	"tradeos/internal/config"
	"tradeos/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	cfg *config.Config
}

func NewUserService(cfg *config.Config) *UserService {
	return &UserService{cfg: cfg}
}

// UserUpdate carries the fields an administrator may change. Nil fields are
// left untouched. Status is the only path that moves an account from PENDING
// to ACTIVE.
type UserUpdate struct {
	UserName *string
	Nickname *string
	Email    *string
	Role     *string
	Status   *string
}

// GetUsers returns all users ordered by id
func (s *UserService) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := models.DB.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a specific user by ID
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to profile, role and status fields
func (s *UserService) UpdateUser(id uint, upd UserUpdate) (*models.User, error) {
	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if upd.Email != nil && *upd.Email != user.Email {
		var existing models.User
		err := models.DB.Where("email = ? AND id != ?", *upd.Email, id).First(&existing).Error
		if err == nil {
			return nil, ErrUserExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *upd.Email
	}

	if upd.UserName != nil {
		user.UserName = *upd.UserName
	}
	if upd.Nickname != nil {
		user.Nickname = *upd.Nickname
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.Status != nil {
		user.Status = *upd.Status
	}

	if err := models.DB.Save(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// DeleteUser soft-deletes a user by moving it to WITHDRAWN
func (s *UserService) DeleteUser(id uint) error {
	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// Don't allow removing the last admin
	if user.Role == models.RoleAdmin {
		var adminCount int64
		models.DB.Model(&models.User{}).
			Where("role = ? AND status = ?", models.RoleAdmin, models.StatusActive).
			Count(&adminCount)
		if adminCount <= 1 {
			return errors.New("cannot delete the last admin user")
		}
	}

	now := time.Now()
	user.Status = models.StatusWithdrawn
	user.DeletedAt = &now
	return models.DB.Save(&user).Error
}

// GetSessions returns active sessions for a user
func (s *UserService) GetSessions(userID uint) ([]models.Session, error) {
	var sessions []models.Session
	if err := models.DB.Where("user_id = ?", userID).Order("last_accessed_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
