package handlers

import (
	"errors"
	"tradeos/internal/config"
	"tradeos/internal/models"
	"tradeos/internal/services"

	"github.com/gin-gonic/gin"
)

type SysConfigHandler struct {
	configService *services.SysConfigService
}

func NewSysConfigHandler(cfg *config.Config) *SysConfigHandler {
	return &SysConfigHandler{
		configService: services.NewSysConfigService(cfg),
	}
}

type CreateConfigRequest struct {
	ConfigID    string `json:"config_id"`
	SysCode     string `json:"sys_code" binding:"required"`
	EnvType     string `json:"env_type" binding:"required"`
	ConfigGroup string `json:"config_group" binding:"required"`
	ConfigKey   string `json:"config_key" binding:"required"`
	ConfigValue string `json:"config_value" binding:"required"`
	ValueType   string `json:"value_type"`
	NameKo      string `json:"config_nm_ko" binding:"required"`
	NameEn      string `json:"config_nm_en"`
	RemarkKo    string `json:"remark_ko"`
	RemarkEn    string `json:"remark_en"`
	UseYN       string `json:"use_yn"`
	SortOrder   int    `json:"sort_ordr"`
	RegID       string `json:"reg_id" binding:"required"`
}

type UpdateConfigRequest struct {
	ConfigValue  string `json:"config_value" binding:"required"`
	NameKo       string `json:"config_nm_ko"`
	RemarkKo     string `json:"remark_ko"`
	UseYN        string `json:"use_yn"`
	ModID        string `json:"mod_id" binding:"required"`
	ChangeReason string `json:"chg_reason"`
}

type DeleteConfigRequest struct {
	ModID        string `json:"mod_id"`
	ChangeReason string `json:"chg_reason"`
}

// ListConfigs returns active configuration entries, optionally filtered by
// group, key or name.
func (h *SysConfigHandler) ListConfigs(c *gin.Context) {
	configs, err := h.configService.ListConfigs(services.SysConfigFilter{
		Group: c.Query("group"),
		Key:   c.Query("key"),
		Name:  c.Query("name"),
	})
	if err != nil {
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get configurations"})
		return
	}

	c.JSON(200, configs)
}

// CreateConfig inserts a configuration entry plus its history row
func (h *SysConfigHandler) CreateConfig(c *gin.Context) {
	var req CreateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	entry, err := h.configService.CreateConfig(&models.SysConfig{
		ConfigID:    req.ConfigID,
		SysCode:     req.SysCode,
		EnvType:     req.EnvType,
		ConfigGroup: req.ConfigGroup,
		ConfigKey:   req.ConfigKey,
		ConfigValue: req.ConfigValue,
		ValueType:   req.ValueType,
		NameKo:      req.NameKo,
		NameEn:      req.NameEn,
		RemarkKo:    req.RemarkKo,
		RemarkEn:    req.RemarkEn,
		UseYN:       req.UseYN,
		SortOrder:   req.SortOrder,
		RegID:       req.RegID,
	})
	if err != nil {
		if errors.Is(err, services.ErrConfigExists) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to create configuration"})
		return
	}

	c.JSON(201, entry)
}

// UpdateConfig updates value/metadata and appends the 'U' history row
func (h *SysConfigHandler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	entry, err := h.configService.UpdateConfig(c.Param("id"), services.SysConfigUpdate{
		ConfigValue:  req.ConfigValue,
		NameKo:       req.NameKo,
		RemarkKo:     req.RemarkKo,
		UseYN:        req.UseYN,
		ModID:        req.ModID,
		ChangeReason: req.ChangeReason,
	})
	if err != nil {
		if errors.Is(err, services.ErrConfigNotFound) {
			c.JSON(404, gin.H{"error": "Configuration not found"})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to update configuration"})
		return
	}

	c.JSON(200, entry)
}

// DeleteConfig removes an entry after recording its final value
func (h *SysConfigHandler) DeleteConfig(c *gin.Context) {
	var req DeleteConfigRequest
	// Body is optional on delete; actor defaults to the session user
	_ = c.ShouldBindJSON(&req)

	if req.ModID == "" {
		if user, exists := c.Get("user"); exists {
			req.ModID = user.(*models.User).LoginID
		}
	}

	if err := h.configService.DeleteConfig(c.Param("id"), req.ModID, req.ChangeReason); err != nil {
		if errors.Is(err, services.ErrConfigNotFound) {
			c.JSON(404, gin.H{"error": "Configuration not found"})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to delete configuration"})
		return
	}

	c.JSON(200, gin.H{"message": "Configuration deleted"})
}

// GetConfigHistory returns the audit rows for one entry
func (h *SysConfigHandler) GetConfigHistory(c *gin.Context) {
	rows, err := h.configService.ListHistory(c.Param("id"))
	if err != nil {
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get configuration history"})
		return
	}

	c.JSON(200, rows)
}
