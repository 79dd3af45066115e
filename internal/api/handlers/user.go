package handlers

import (
	"errors"
	"strconv"
	"tradeos/internal/config"
	"tradeos/internal/models"
	"tradeos/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(cfg),
	}
}

type UpdateUserRequest struct {
	UserName *string `json:"user_name"`
	Nickname *string `json:"nickname"`
	Email    *string `json:"email"`
	Role     *string `json:"user_role"`
	Status   *string `json:"status"`
}

// GetUsers returns all users
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get users"})
		return
	}

	c.JSON(200, gin.H{"users": users})
}

// GetUser returns a specific user
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.userService.GetUser(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get user"})
		return
	}

	c.JSON(200, user)
}

// UpdateUser applies a partial update; this is the only path that moves an
// account from PENDING to ACTIVE.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, err := h.userService.UpdateUser(uint(id), services.UserUpdate{
		UserName: req.UserName,
		Nickname: req.Nickname,
		Email:    req.Email,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(404, gin.H{"error": "User not found"})
		case errors.Is(err, services.ErrUserExists):
			c.JSON(400, gin.H{"error": err.Error()})
		default:
			c.Error(err)
			c.JSON(500, gin.H{"error": "Failed to update user"})
		}
		return
	}

	c.JSON(200, user)
}

// DeleteUser soft-deletes a user (WITHDRAWN)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.userService.DeleteUser(uint(id)); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"message": "User deleted successfully"})
}

// GetSessions returns active sessions for the current user
func (h *UserHandler) GetSessions(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}

	u := user.(*models.User)
	sessions, err := h.userService.GetSessions(u.ID)
	if err != nil {
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get sessions"})
		return
	}

	c.JSON(200, gin.H{"sessions": sessions})
}
