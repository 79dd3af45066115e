package models

import (
	"time"
)

// History action types
const (
	ActionInsert = "I"
	ActionUpdate = "U"
	ActionDelete = "D"
)

// SysConfig is one configuration entry. (SysCode, EnvType, ConfigKey) is the
// natural key; ConfigID is a caller-supplied or generated identifier.
type SysConfig struct {
	ConfigID    string    `json:"config_id" gorm:"type:varchar(50);primaryKey"`
	SysCode     string    `json:"sys_code" gorm:"type:varchar(20);not null;uniqueIndex:uix_sys_config,priority:1"`
	EnvType     string    `json:"env_type" gorm:"type:varchar(10);not null;uniqueIndex:uix_sys_config,priority:2"`
	ConfigGroup string    `json:"config_group" gorm:"type:varchar(50);not null"`
	ConfigKey   string    `json:"config_key" gorm:"type:varchar(100);not null;uniqueIndex:uix_sys_config,priority:3"`
	ConfigValue string    `json:"config_value" gorm:"type:text;not null"`
	ValueType   string    `json:"value_type" gorm:"type:varchar(10);default:'STRING'"`
	NameKo      string    `json:"config_nm_ko" gorm:"type:varchar(200);not null"`
	NameEn      string    `json:"config_nm_en" gorm:"type:varchar(200)"`
	RemarkKo    string    `json:"remark_ko" gorm:"type:varchar(1000)"`
	RemarkEn    string    `json:"remark_en" gorm:"type:varchar(1000)"`
	UseYN       string    `json:"use_yn" gorm:"type:char(1);default:'Y'"`
	SortOrder   int       `json:"sort_ordr" gorm:"default:0"`
	RegID       string    `json:"reg_id" gorm:"type:varchar(50);not null"`
	ModID       string    `json:"mod_id" gorm:"type:varchar(50)"`
	CreatedAt   time.Time `json:"reg_dt"`
	UpdatedAt   time.Time `json:"mod_dt"`
}

// SysConfigHistory is the append-only audit record paired 1:1 with every
// configuration mutation.
type SysConfigHistory struct {
	HistSeq      uint      `json:"hist_seq" gorm:"primaryKey"`
	ConfigID     string    `json:"config_id" gorm:"type:varchar(50);not null;index"`
	ActionType   string    `json:"action_type" gorm:"type:char(1);not null"`
	BeforeValue  *string   `json:"before_value" gorm:"type:text"`
	AfterValue   *string   `json:"after_value" gorm:"type:text"`
	ChangeReason string    `json:"chg_reason" gorm:"type:varchar(500)"`
	RegID        string    `json:"reg_id" gorm:"type:varchar(50);not null"`
	CreatedAt    time.Time `json:"reg_dt"`
}
