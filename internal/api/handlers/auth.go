package handlers

import (
	"errors"
	"tradeos/internal/config"
	"tradeos/internal/models"
	"tradeos/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

type RegisterRequest struct {
	LoginID     string `json:"login_id" binding:"required"`
	Password    string `json:"password" binding:"required,min=4"`
	Email       string `json:"email" binding:"required,email"`
	UserName    string `json:"user_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ConfirmLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type LogoutRequest struct {
	Token string `json:"token"`
}

// publicUser reduces a user to the fields exposed on login responses
func publicUser(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.LoginID,
		"name":     u.UserName,
		"role":     u.Role,
	}
}

// Register creates a new PENDING account
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, err := h.authService.Register(req.LoginID, req.Password, req.Email, req.UserName, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(400, gin.H{"error": "Username or Email already exists"})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Registration failed. Please try again."})
		return
	}

	c.JSON(201, gin.H{
		"message": "Registration successful. Account is pending approval.",
		"user": gin.H{
			"user_id":   user.ID,
			"login_id":  user.LoginID,
			"user_name": user.UserName,
			"status":    user.Status,
		},
	})
}

// Login authenticates and either issues a token or reports existing sessions
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.authService.Login(req.Username, req.Password, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		h.loginError(c, err)
		return
	}

	if result.Status == services.LoginConcurrent {
		c.JSON(200, gin.H{
			"status":   services.LoginConcurrent,
			"user":     publicUser(result.User),
			"sessions": result.Sessions,
		})
		return
	}

	c.JSON(200, gin.H{
		"status": services.LoginSuccess,
		"user":   publicUser(result.User),
		"token":  result.Token,
	})
}

// ConfirmLogin resolves a concurrent-login conflict (ALLOW or DENY_ALL)
func (h *AuthHandler) ConfirmLogin(c *gin.Context) {
	var req ConfirmLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.authService.ConfirmLogin(req.Username, req.Password, req.Action, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrInvalidAction) {
			c.JSON(400, gin.H{"error": "Action must be ALLOW or DENY_ALL"})
			return
		}
		h.loginError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"status": services.LoginSuccess,
		"user":   publicUser(result.User),
		"token":  result.Token,
	})
}

// Logout deletes the session for the supplied token. Reports success even
// when no such session existed.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Token != "" {
		if err := h.authService.Logout(req.Token); err != nil {
			c.Error(err)
			c.JSON(500, gin.H{"error": "Logout failed"})
			return
		}
	}

	c.JSON(200, gin.H{"success": true})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(200, user.(*models.User))
}

func (h *AuthHandler) loginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(401, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, services.ErrAccountPending):
		c.JSON(403, gin.H{"error": "Account is pending approval"})
	case errors.Is(err, services.ErrAccountInactive):
		c.JSON(403, gin.H{"error": "Account is not active"})
	default:
		c.Error(err)
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}
