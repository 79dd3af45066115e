package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"tradeos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestMessageCRUD(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewMessageService(cfg)

	t.Run("create with generated id and both texts", func(t *testing.T) {
		msg, err := svc.CreateMessage(MessageInput{
			MsgKey:   "LOGIN_BTN",
			Category: "AUTH",
			TextKo:   strptr("로그인"),
			TextEn:   strptr("Sign In"),
			ActorID:  "admin",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, msg.MsgID)
		assert.Equal(t, "LBL", msg.MsgType)
		assert.Equal(t, models.SyncChanged, msg.SyncStatus)
		require.Len(t, msg.Texts, 2)
	})

	t.Run("duplicate key within category is rejected", func(t *testing.T) {
		_, err := svc.CreateMessage(MessageInput{
			MsgKey:   "LOGIN_BTN",
			Category: "AUTH",
			ActorID:  "admin",
		})
		assert.ErrorIs(t, err, ErrMessageExists)
	})

	t.Run("same key in another category is fine", func(t *testing.T) {
		_, err := svc.CreateMessage(MessageInput{
			MsgKey:   "LOGIN_BTN",
			Category: "COMMON",
			ActorID:  "admin",
		})
		assert.NoError(t, err)
	})

	t.Run("update upserts text and marks CHANGED", func(t *testing.T) {
		created, err := svc.CreateMessage(MessageInput{
			MsgKey:   "BTN_SAVE",
			Category: "COMMON",
			TextEn:   strptr("Save"),
			ActorID:  "admin",
		})
		require.NoError(t, err)

		// Pretend it has been exported
		require.NoError(t, models.DB.Model(&models.Message{}).
			Where("msg_id = ?", created.MsgID).
			Update("sync_status", models.SyncSynced).Error)

		updated, err := svc.UpdateMessage(created.MsgID, MessageInput{
			TextKo:  strptr("저장"),
			TextEn:  strptr("Save changes"),
			ActorID: "manager",
		})
		require.NoError(t, err)
		assert.Equal(t, models.SyncChanged, updated.SyncStatus)
		assert.Equal(t, "manager", updated.ModID)

		texts := map[string]string{}
		for _, tx := range updated.Texts {
			texts[tx.LangCode] = tx.MsgText
		}
		assert.Equal(t, "저장", texts["ko"])
		assert.Equal(t, "Save changes", texts["en"])
	})

	t.Run("delete removes master and texts", func(t *testing.T) {
		created, err := svc.CreateMessage(MessageInput{
			MsgKey:   "BTN_CANCEL",
			Category: "COMMON",
			TextEn:   strptr("Cancel"),
			ActorID:  "admin",
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteMessage(created.MsgID))

		_, err = svc.GetMessage(created.MsgID)
		assert.ErrorIs(t, err, ErrMessageNotFound)

		var count int64
		models.DB.Model(&models.MessageText{}).Where("msg_id = ?", created.MsgID).Count(&count)
		assert.Equal(t, int64(0), count)

		assert.ErrorIs(t, svc.DeleteMessage(created.MsgID), ErrMessageNotFound)
	})
}

func readTranslation(t *testing.T, dir, lang string) map[string]string {
	data, err := os.ReadFile(filepath.Join(dir, lang, "translation.json"))
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestMessageExport(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	localesDir := t.TempDir()
	cfg.Paths.Locales = localesDir

	svc := NewMessageService(cfg)

	_, err := svc.CreateMessage(MessageInput{
		MsgKey:   "LOGIN_TITLE",
		Category: "AUTH",
		TextKo:   strptr("환영합니다"),
		TextEn:   strptr("Welcome Back"),
		ActorID:  "admin",
	})
	require.NoError(t, err)

	_, err = svc.CreateMessage(MessageInput{
		MsgKey:   "MENU_TRADE",
		Category: "COMMON",
		TextKo:   strptr("거래"),
		TextEn:   strptr("Trade"),
		ActorID:  "admin",
	})
	require.NoError(t, err)

	// Inactive messages must not be exported
	inactive, err := svc.CreateMessage(MessageInput{
		MsgKey:   "OLD_KEY",
		Category: "COMMON",
		UseYN:    "N",
		TextEn:   strptr("stale"),
		ActorID:  "admin",
	})
	require.NoError(t, err)

	result, err := svc.Export()
	require.NoError(t, err)
	assert.Equal(t, localesDir, result.Path)
	assert.Equal(t, 2, result.Exported["en"])
	assert.Equal(t, 2, result.Exported["ko"])

	en := readTranslation(t, localesDir, "en")
	ko := readTranslation(t, localesDir, "ko")

	assert.Equal(t, map[string]string{
		"LOGIN_TITLE": "Welcome Back",
		"MENU_TRADE":  "Trade",
	}, en)
	assert.Equal(t, map[string]string{
		"LOGIN_TITLE": "환영합니다",
		"MENU_TRADE":  "거래",
	}, ko)
	assert.NotContains(t, en, "OLD_KEY")

	// Active rows are marked SYNCED, the inactive one stays CHANGED
	var synced int64
	models.DB.Model(&models.Message{}).Where("sync_status = ?", models.SyncSynced).Count(&synced)
	assert.Equal(t, int64(2), synced)

	var stale models.Message
	require.NoError(t, models.DB.First(&stale, "msg_id = ?", inactive.MsgID).Error)
	assert.Equal(t, models.SyncChanged, stale.SyncStatus)

	// An active row excluded from export keeps its CHANGED flag
	held, err := svc.CreateMessage(MessageInput{
		MsgKey:   "HELD_KEY",
		Category: "COMMON",
		TextEn:   strptr("held back"),
		ActorID:  "admin",
	})
	require.NoError(t, err)
	require.NoError(t, models.DB.Model(&models.Message{}).
		Where("msg_id = ?", held.MsgID).
		Update("export_yn", "N").Error)

	_, err = svc.Export()
	require.NoError(t, err)

	var heldRow models.Message
	require.NoError(t, models.DB.First(&heldRow, "msg_id = ?", held.MsgID).Error)
	assert.Equal(t, models.SyncChanged, heldRow.SyncStatus)

	en = readTranslation(t, localesDir, "en")
	assert.NotContains(t, en, "HELD_KEY")

	// Re-running without data changes is idempotent
	first, err := os.ReadFile(filepath.Join(localesDir, "en", "translation.json"))
	require.NoError(t, err)

	_, err = svc.Export()
	require.NoError(t, err)

	second, err := os.ReadFile(filepath.Join(localesDir, "en", "translation.json"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	// No stray temp files left behind
	entries, err := os.ReadDir(filepath.Join(localesDir, "en"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "translation.json", entries[0].Name())
}

func TestMessageExportFailureLeavesNoPartialFiles(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	// A file where the locales directory should be makes MkdirAll fail
	base := t.TempDir()
	blocked := filepath.Join(base, "locales")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))
	cfg.Paths.Locales = blocked

	svc := NewMessageService(cfg)

	created, err := svc.CreateMessage(MessageInput{
		MsgKey:   "LOGIN_BTN",
		Category: "AUTH",
		TextEn:   strptr("Sign In"),
		ActorID:  "admin",
	})
	require.NoError(t, err)

	_, err = svc.Export()
	require.Error(t, err)

	// Sync status must be untouched after a failed export
	var msg models.Message
	require.NoError(t, models.DB.First(&msg, "msg_id = ?", created.MsgID).Error)
	assert.Equal(t, models.SyncChanged, msg.SyncStatus)
}
