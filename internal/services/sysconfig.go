package services

import (
	"errors"
	"strings"
	"tradeos/internal/config"
	"tradeos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrConfigExists   = errors.New("duplicate configuration key exists in this environment")
)

type SysConfigService struct {
	cfg *config.Config
}

func NewSysConfigService(cfg *config.Config) *SysConfigService {
	return &SysConfigService{cfg: cfg}
}

// SysConfigFilter narrows the configuration listing. Empty fields match all.
type SysConfigFilter struct {
	Group string
	Key   string
	Name  string
}

// SysConfigUpdate carries the mutable fields of a configuration entry.
type SysConfigUpdate struct {
	ConfigValue  string
	NameKo       string
	RemarkKo     string
	UseYN        string
	ModID        string
	ChangeReason string
}

// ListConfigs returns active configuration entries matching the filter
func (s *SysConfigService) ListConfigs(filter SysConfigFilter) ([]models.SysConfig, error) {
	query := models.DB.Where("use_yn = ?", "Y")

	if filter.Group != "" {
		query = query.Where("config_group LIKE ?", "%"+filter.Group+"%")
	}
	if filter.Key != "" {
		query = query.Where("config_key LIKE ?", "%"+filter.Key+"%")
	}
	if filter.Name != "" {
		query = query.Where("name_ko LIKE ?", "%"+filter.Name+"%")
	}

	var configs []models.SysConfig
	if err := query.Order("config_group, sort_order, config_key").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// GetConfig returns a configuration entry by id
func (s *SysConfigService) GetConfig(id string) (*models.SysConfig, error) {
	var entry models.SysConfig
	if err := models.DB.First(&entry, "config_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// CreateConfig inserts a configuration entry together with its 'I' history
// row. The entry and the history share one transaction.
func (s *SysConfigService) CreateConfig(entry *models.SysConfig) (*models.SysConfig, error) {
	if entry.ConfigID == "" {
		entry.ConfigID = "CFG_" + strings.ToUpper(uuid.NewString()[:8])
	}
	if entry.ValueType == "" {
		entry.ValueType = "STRING"
	}
	if entry.UseYN == "" {
		entry.UseYN = "Y"
	}
	entry.ModID = entry.RegID

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SysConfig{}).
			Where("sys_code = ? AND env_type = ? AND config_key = ?", entry.SysCode, entry.EnvType, entry.ConfigKey).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConfigExists
		}

		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		after := entry.ConfigValue
		return tx.Create(&models.SysConfigHistory{
			ConfigID:     entry.ConfigID,
			ActionType:   models.ActionInsert,
			AfterValue:   &after,
			ChangeReason: "New Registration",
			RegID:        entry.RegID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// UpdateConfig updates value and metadata and appends a 'U' history row
// recording the prior value, atomically.
func (s *SysConfigService) UpdateConfig(id string, upd SysConfigUpdate) (*models.SysConfig, error) {
	var entry models.SysConfig

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, "config_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConfigNotFound
			}
			return err
		}

		before := entry.ConfigValue

		entry.ConfigValue = upd.ConfigValue
		if upd.NameKo != "" {
			entry.NameKo = upd.NameKo
		}
		if upd.RemarkKo != "" {
			entry.RemarkKo = upd.RemarkKo
		}
		if upd.UseYN != "" {
			entry.UseYN = upd.UseYN
		}
		entry.ModID = upd.ModID

		if err := tx.Save(&entry).Error; err != nil {
			return err
		}

		reason := upd.ChangeReason
		if reason == "" {
			reason = "Update"
		}

		after := entry.ConfigValue
		return tx.Create(&models.SysConfigHistory{
			ConfigID:     id,
			ActionType:   models.ActionUpdate,
			BeforeValue:  &before,
			AfterValue:   &after,
			ChangeReason: reason,
			RegID:        upd.ModID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// DeleteConfig records a 'D' history row carrying the entry's last value,
// then removes the entry. The history row is what preserves the audit trail
// after the hard delete.
func (s *SysConfigService) DeleteConfig(id, modID, reason string) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		var entry models.SysConfig
		if err := tx.First(&entry, "config_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConfigNotFound
			}
			return err
		}

		if reason == "" {
			reason = "Delete"
		}

		before := entry.ConfigValue
		if err := tx.Create(&models.SysConfigHistory{
			ConfigID:     id,
			ActionType:   models.ActionDelete,
			BeforeValue:  &before,
			ChangeReason: reason,
			RegID:        modID,
		}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.SysConfig{}, "config_id = ?", id).Error
	})
}

// ListHistory returns the audit rows for one configuration entry
func (s *SysConfigService) ListHistory(configID string) ([]models.SysConfigHistory, error) {
	var rows []models.SysConfigHistory
	if err := models.DB.Where("config_id = ?", configID).Order("hist_seq DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
