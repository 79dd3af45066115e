package models

import (
	"time"
)

// Trade sides
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Capital entry types
const (
	CapitalDeposit    = "DEPOSIT"
	CapitalWithdrawal = "WITHDRAWAL"
)

// Trade is a single portfolio transaction entered by a user.
type Trade struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Symbol    string    `json:"symbol" gorm:"type:varchar(20);not null;index"`
	Side      string    `json:"side" gorm:"type:varchar(4);not null"`
	Quantity  float64   `json:"quantity" gorm:"not null"`
	Price     float64   `json:"price" gorm:"not null"`
	TradedAt  time.Time `json:"traded_at" gorm:"not null;index"`
	Note      string    `json:"note" gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

// CapitalEntry records cash moving in or out of a user's account. The cash
// balance is the sum of deposits minus withdrawals minus net invested.
type CapitalEntry struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	EntryType  string    `json:"entry_type" gorm:"type:varchar(10);not null"`
	Amount     float64   `json:"amount" gorm:"not null"`
	RecordedAt time.Time `json:"recorded_at" gorm:"not null"`
	Note       string    `json:"note" gorm:"type:varchar(500)"`
	CreatedAt  time.Time `json:"created_at"`
}
