package services

import (
	"errors"
	"fmt"
	"time"
	"tradeos/internal/config"
	"tradeos/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already exists")
	ErrAccountPending     = errors.New("account is pending approval")
	ErrAccountInactive    = errors.New("account is not active")
	ErrInvalidAction      = errors.New("invalid confirmation action")
)

// Login statuses returned to the client
const (
	LoginSuccess         = "SUCCESS"
	LoginConcurrent      = "CONCURRENT_LOGIN"
	ConfirmActionAllow   = "ALLOW"
	ConfirmActionDenyAll = "DENY_ALL"
)

type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// LoginResult is the outcome of a login attempt. On SUCCESS, User and Token
// are set. On CONCURRENT_LOGIN, Sessions carries the existing session rows
// and no token has been issued.
type LoginResult struct {
	Status   string
	User     *models.User
	Token    string
	Sessions []models.Session
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Register creates a new user in PENDING status. Fails if the login id or
// email is already taken; no row is created in that case.
func (s *AuthService) Register(loginID, password, email, userName, phoneNumber string) (*models.User, error) {
	var existing models.User
	err := models.DB.Where("login_id = ? OR email = ?", loginID, email).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		LoginID:      loginID,
		PasswordHash: hashedPassword,
		Email:        email,
		UserName:     userName,
		PhoneNumber:  phoneNumber,
		Role:         models.RoleUser,
		Status:       models.StatusPending,
	}

	if err := models.DB.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// authenticate verifies credentials and account status, returning the user.
func (s *AuthService) authenticate(loginID, password string) (*models.User, error) {
	var user models.User
	if err := models.DB.Where("login_id = ?", loginID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	switch user.Status {
	case models.StatusActive:
		// ok
	case models.StatusPending:
		return nil, ErrAccountPending
	default:
		return nil, ErrAccountInactive
	}

	return &user, nil
}

// Login validates credentials and either issues a session token or reports
// existing sessions as a concurrent-login conflict. The conflict check is
// advisory: the sessions read and the later insert are separate statements,
// so two simultaneous attempts can both see an empty set.
func (s *AuthService) Login(loginID, password, deviceInfo, ipAddress string) (*LoginResult, error) {
	user, err := s.authenticate(loginID, password)
	if err != nil {
		return nil, err
	}

	var sessions []models.Session
	if err := models.DB.Where("user_id = ?", user.ID).Order("last_accessed_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}

	if len(sessions) > 0 {
		// No session insert and no last-login stamp until the user decides.
		return &LoginResult{
			Status:   LoginConcurrent,
			User:     user,
			Sessions: sessions,
		}, nil
	}

	token, err := s.createSession(user, deviceInfo, ipAddress)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Status: LoginSuccess, User: user, Token: token}, nil
}

// ConfirmLogin resolves a concurrent-login conflict. DENY_ALL removes every
// existing session for the user before the new one is created; ALLOW leaves
// them intact. Either way a new session is issued.
func (s *AuthService) ConfirmLogin(loginID, password, action, deviceInfo, ipAddress string) (*LoginResult, error) {
	if action != ConfirmActionAllow && action != ConfirmActionDenyAll {
		return nil, ErrInvalidAction
	}

	user, err := s.authenticate(loginID, password)
	if err != nil {
		return nil, err
	}

	if action == ConfirmActionDenyAll {
		if err := models.DB.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
			return nil, err
		}
	}

	token, err := s.createSession(user, deviceInfo, ipAddress)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Status: LoginSuccess, User: user, Token: token}, nil
}

// Logout deletes the session matching the token. Unknown tokens are not an
// error; logout always succeeds.
func (s *AuthService) Logout(token string) error {
	return models.DB.Where("token = ?", token).Delete(&models.Session{}).Error
}

// GetSession retrieves an unexpired session by token and touches its
// last-accessed timestamp.
func (s *AuthService) GetSession(token string) (*models.Session, error) {
	var session models.Session
	if err := models.DB.Where("token = ? AND expires_at > ?", token, time.Now()).Preload("User").First(&session).Error; err != nil {
		return nil, err
	}

	session.LastAccessedAt = time.Now()
	models.DB.Model(&models.Session{}).Where("id = ?", session.ID).Update("last_accessed_at", session.LastAccessedAt)

	return &session, nil
}

// DeleteExpiredSessions removes expired sessions
func (s *AuthService) DeleteExpiredSessions() error {
	return models.DB.Where("expires_at < ?", time.Now()).Delete(&models.Session{}).Error
}

// CreateDefaultUser creates the default admin user if the table is empty
func (s *AuthService) CreateDefaultUser() error {
	var count int64
	models.DB.Model(&models.User{}).Count(&count)

	if count > 0 {
		return nil
	}

	hashedPassword, err := s.HashPassword(s.cfg.DefaultUser.Password)
	if err != nil {
		return err
	}

	return models.DB.Create(&models.User{
		LoginID:      s.cfg.DefaultUser.LoginID,
		PasswordHash: hashedPassword,
		Email:        s.cfg.DefaultUser.Email,
		UserName:     s.cfg.DefaultUser.Name,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}).Error
}

// createSession mints a signed token, inserts the session row and stamps the
// user's last-login time.
func (s *AuthService) createSession(user *models.User, deviceInfo, ipAddress string) (string, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	session := &models.Session{
		UserID:         user.ID,
		Token:          token,
		DeviceInfo:     deviceInfo,
		IPAddress:      ipAddress,
		ExpiresAt:      expiresAt,
		LastAccessedAt: time.Now(),
	}
	if err := models.DB.Create(session).Error; err != nil {
		return "", err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := models.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("last_login_at", now).Error; err != nil {
		return "", err
	}

	return token, nil
}

// generateToken mints an HS256 token for the user. The client treats it as an
// opaque string; authorization always goes through the session row.
func (s *AuthService) generateToken(user *models.User) (string, time.Time, error) {
	expiresIn, err := time.ParseDuration(s.cfg.JWT.ExpiresIn)
	if err != nil {
		expiresIn = 24 * time.Hour
	}

	now := time.Now()
	expiresAt := now.Add(expiresIn)

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"login_id": user.LoginID,
		"role":     user.Role,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
		"iss":      s.cfg.JWT.Issuer,
		"jti":      fmt.Sprintf("%d-%d", user.ID, now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}
