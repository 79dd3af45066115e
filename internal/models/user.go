package models

import (
	"time"
)

// User roles
const (
	RoleUser    = "USER"
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

// Account lifecycle statuses. New registrations start as PENDING and only an
// administrative edit moves them to ACTIVE. Deleting a user is a soft
// transition to WITHDRAWN.
const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusRejected  = "REJECTED"
	StatusWithdrawn = "WITHDRAWN"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	LoginID      string     `json:"login_id" gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	Email        string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	UserName     string     `json:"user_name" gorm:"type:varchar(100);not null"`
	Nickname     string     `json:"nickname" gorm:"type:varchar(100)"`
	PhoneNumber  string     `json:"phone_number" gorm:"type:varchar(50)"`
	Role         string     `json:"user_role" gorm:"type:varchar(20);default:'USER'"`
	Status       string     `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Session is one authenticated browser session. Several rows may coexist for
// the same user; the concurrent-login check at login time is advisory only.
type Session struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	Token          string    `json:"token" gorm:"type:varchar(500);uniqueIndex;not null"`
	DeviceInfo     string    `json:"device_info" gorm:"type:varchar(500)"`
	IPAddress      string    `json:"ip_address" gorm:"type:varchar(45)"`
	ExpiresAt      time.Time `json:"expires_at" gorm:"not null;index"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	CreatedAt      time.Time `json:"created_at"`
	User           User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
