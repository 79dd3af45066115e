package models

import (
	"time"
)

// Sync statuses for message rows. A row is CHANGED until its current text has
// been exported to the static translation files, then SYNCED.
const (
	SyncChanged = "CHANGED"
	SyncSynced  = "SYNCED"
)

// Supported translation languages, in export order.
var MessageLanguages = []string{"en", "ko"}

// Message is one UI message/label key. (Category, MsgKey) is unique.
type Message struct {
	MsgID       string    `json:"msg_id" gorm:"type:varchar(50);primaryKey"`
	MsgKey      string    `json:"msg_key" gorm:"type:varchar(100);not null;uniqueIndex:uix_msg,priority:2"`
	MsgType     string    `json:"msg_type" gorm:"type:varchar(10);default:'LBL'"`
	Category    string    `json:"category" gorm:"type:varchar(20);not null;uniqueIndex:uix_msg,priority:1"`
	ExportYN    string    `json:"export_yn" gorm:"type:char(1);default:'Y'"`
	SyncStatus  string    `json:"sync_stat" gorm:"type:varchar(10);default:'CHANGED'"`
	UseYN       string    `json:"use_yn" gorm:"type:char(1);default:'Y'"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	RegID       string    `json:"reg_id" gorm:"type:varchar(50);not null"`
	ModID       string    `json:"mod_id" gorm:"type:varchar(50)"`
	CreatedAt   time.Time `json:"reg_dt"`
	UpdatedAt   time.Time `json:"mod_dt"`

	Texts []MessageText `json:"texts,omitempty" gorm:"foreignKey:MsgID;constraint:OnDelete:CASCADE"`
}

// MessageText is a language-keyed text variant of a message.
type MessageText struct {
	MsgID    string `json:"msg_id" gorm:"type:varchar(50);primaryKey"`
	LangCode string `json:"lang_code" gorm:"type:varchar(10);primaryKey"`
	MsgText  string `json:"msg_text" gorm:"type:varchar(4000);not null"`
}
