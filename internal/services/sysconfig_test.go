package services

import (
	"testing"
	"tradeos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfigEntry(key string) *models.SysConfig {
	return &models.SysConfig{
		SysCode:     "TRD",
		EnvType:     "DEV",
		ConfigGroup: "API",
		ConfigKey:   key,
		ConfigValue: "initial",
		NameKo:      "테스트 설정",
		RegID:       "admin",
	}
}

func TestSysConfigCreate(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSysConfigService(cfg)

	t.Run("create writes entry and I history", func(t *testing.T) {
		entry, err := svc.CreateConfig(newConfigEntry("base.url"))
		require.NoError(t, err)
		assert.NotEmpty(t, entry.ConfigID)
		assert.Equal(t, "STRING", entry.ValueType)
		assert.Equal(t, "Y", entry.UseYN)

		history, err := svc.ListHistory(entry.ConfigID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.ActionInsert, history[0].ActionType)
		require.NotNil(t, history[0].AfterValue)
		assert.Equal(t, "initial", *history[0].AfterValue)
		assert.Nil(t, history[0].BeforeValue)
	})

	t.Run("duplicate natural key is rejected", func(t *testing.T) {
		_, err := svc.CreateConfig(newConfigEntry("base.url"))
		assert.ErrorIs(t, err, ErrConfigExists)

		var count int64
		models.DB.Model(&models.SysConfig{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("same key in another environment is fine", func(t *testing.T) {
		entry := newConfigEntry("base.url")
		entry.EnvType = "PRD"
		_, err := svc.CreateConfig(entry)
		assert.NoError(t, err)
	})
}

func TestSysConfigUpdate(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSysConfigService(cfg)

	entry, err := svc.CreateConfig(newConfigEntry("timeout"))
	require.NoError(t, err)

	updated, err := svc.UpdateConfig(entry.ConfigID, SysConfigUpdate{
		ConfigValue:  "30s",
		ModID:        "manager",
		ChangeReason: "raise timeout",
	})
	require.NoError(t, err)
	assert.Equal(t, "30s", updated.ConfigValue)
	assert.Equal(t, "manager", updated.ModID)

	history, err := svc.ListHistory(entry.ConfigID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first
	assert.Equal(t, models.ActionUpdate, history[0].ActionType)
	require.NotNil(t, history[0].BeforeValue)
	assert.Equal(t, "initial", *history[0].BeforeValue)
	require.NotNil(t, history[0].AfterValue)
	assert.Equal(t, "30s", *history[0].AfterValue)
	assert.Equal(t, "raise timeout", history[0].ChangeReason)

	_, err = svc.UpdateConfig("nope", SysConfigUpdate{ConfigValue: "x", ModID: "m"})
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestSysConfigDelete(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSysConfigService(cfg)

	entry, err := svc.CreateConfig(newConfigEntry("feature.flag"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConfig(entry.ConfigID, "admin", "obsolete"))

	_, err = svc.GetConfig(entry.ConfigID)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	// The D history row carries the entry's last value
	history, err := svc.ListHistory(entry.ConfigID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ActionDelete, history[0].ActionType)
	require.NotNil(t, history[0].BeforeValue)
	assert.Equal(t, "initial", *history[0].BeforeValue)
	assert.Nil(t, history[0].AfterValue)

	assert.ErrorIs(t, svc.DeleteConfig(entry.ConfigID, "admin", ""), ErrConfigNotFound)
}

func TestSysConfigListFilters(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSysConfigService(cfg)

	a := newConfigEntry("api.base")
	a.ConfigGroup = "API"
	_, err := svc.CreateConfig(a)
	require.NoError(t, err)

	b := newConfigEntry("ui.theme")
	b.ConfigGroup = "UI"
	_, err = svc.CreateConfig(b)
	require.NoError(t, err)

	inactive := newConfigEntry("old.key")
	inactive.UseYN = "N"
	_, err = svc.CreateConfig(inactive)
	require.NoError(t, err)

	all, err := svc.ListConfigs(SysConfigFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2) // inactive entries are excluded

	apiOnly, err := svc.ListConfigs(SysConfigFilter{Group: "API"})
	require.NoError(t, err)
	require.Len(t, apiOnly, 1)
	assert.Equal(t, "api.base", apiOnly[0].ConfigKey)

	byKey, err := svc.ListConfigs(SysConfigFilter{Key: "theme"})
	require.NoError(t, err)
	require.Len(t, byKey, 1)
	assert.Equal(t, "ui.theme", byKey[0].ConfigKey)
}
