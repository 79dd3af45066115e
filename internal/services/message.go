package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"tradeos/internal/config"
	"tradeos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrMessageExists   = errors.New("message key already exists in this category")
)

type MessageService struct {
	cfg *config.Config
}

func NewMessageService(cfg *config.Config) *MessageService {
	return &MessageService{cfg: cfg}
}

// MessageFilter narrows the message listing. Empty fields match all.
type MessageFilter struct {
	Category string
	Key      string
}

// MessageInput is the payload for creating or updating a message. Nil text
// fields leave the corresponding language untouched.
type MessageInput struct {
	MsgID    string
	MsgKey   string
	MsgType  string
	Category string
	UseYN    string
	TextKo   *string
	TextEn   *string
	ActorID  string
}

// ExportResult reports a completed translation-file deployment.
type ExportResult struct {
	Path     string         `json:"path"`
	Exported map[string]int `json:"exported"`
}

// ListMessages returns active messages with their language texts preloaded
func (s *MessageService) ListMessages(filter MessageFilter) ([]models.Message, error) {
	query := models.DB.Where("use_yn = ?", "Y").Preload("Texts")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Key != "" {
		query = query.Where("msg_key LIKE ?", "%"+filter.Key+"%")
	}

	var messages []models.Message
	if err := query.Order("category, msg_key").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// GetMessage returns one message with its texts
func (s *MessageService) GetMessage(id string) (*models.Message, error) {
	var msg models.Message
	if err := models.DB.Preload("Texts").First(&msg, "msg_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// CreateMessage inserts a message master row and its language texts in one
// transaction. The id is generated when the caller leaves it empty.
func (s *MessageService) CreateMessage(in MessageInput) (*models.Message, error) {
	msg := &models.Message{
		MsgID:      in.MsgID,
		MsgKey:     in.MsgKey,
		MsgType:    in.MsgType,
		Category:   in.Category,
		SyncStatus: models.SyncChanged,
		RegID:      in.ActorID,
		ModID:      in.ActorID,
	}
	if msg.MsgID == "" {
		msg.MsgID = "MSG_" + uuid.NewString()[:8]
	}
	if msg.MsgType == "" {
		msg.MsgType = "LBL"
	}
	if in.UseYN != "" {
		msg.UseYN = in.UseYN
	} else {
		msg.UseYN = "Y"
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Message{}).
			Where("category = ? AND msg_key = ?", msg.Category, msg.MsgKey).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrMessageExists
		}

		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		return upsertTexts(tx, msg.MsgID, in.TextKo, in.TextEn)
	})
	if err != nil {
		return nil, err
	}

	return s.GetMessage(msg.MsgID)
}

// UpdateMessage upserts language texts and flags the row as CHANGED until the
// next export.
func (s *MessageService) UpdateMessage(id string, in MessageInput) (*models.Message, error) {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		if err := tx.First(&msg, "msg_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"sync_status": models.SyncChanged,
			"mod_id":      in.ActorID,
		}
		if in.UseYN != "" {
			updates["use_yn"] = in.UseYN
		}
		if err := tx.Model(&models.Message{}).Where("msg_id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		return upsertTexts(tx, id, in.TextKo, in.TextEn)
	})
	if err != nil {
		return nil, err
	}

	return s.GetMessage(id)
}

// DeleteMessage removes a message and its language texts
func (s *MessageService) DeleteMessage(id string) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		if err := tx.First(&msg, "msg_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}

		if err := tx.Delete(&models.MessageText{}, "msg_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, "msg_id = ?", id).Error
	})
}

// Export aggregates all active messages into one flat key→text map per
// language and writes them under <locales>/<lang>/translation.json. Both
// files are written to temporary files first and swapped into place only
// after every write succeeded, so a failure leaves no partial files. Rows are
// marked SYNCED afterwards. Re-running with unchanged data produces identical
// files.
func (s *MessageService) Export() (*ExportResult, error) {
	type row struct {
		MsgKey   string
		LangCode string
		MsgText  string
	}

	var rows []row
	if err := models.DB.Model(&models.Message{}).
		Select("messages.msg_key, message_texts.lang_code, message_texts.msg_text").
		Joins("JOIN message_texts ON message_texts.msg_id = messages.msg_id").
		Where("messages.use_yn = ? AND messages.export_yn = ?", "Y", "Y").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byLang := make(map[string]map[string]string)
	for _, lang := range models.MessageLanguages {
		byLang[lang] = make(map[string]string)
	}
	for _, r := range rows {
		if m, ok := byLang[r.LangCode]; ok {
			m[r.MsgKey] = r.MsgText
		}
	}

	localesDir := s.cfg.Paths.Locales
	if err := writeTranslationFiles(localesDir, byLang); err != nil {
		return nil, err
	}

	if err := models.DB.Model(&models.Message{}).
		Where("use_yn = ? AND export_yn = ?", "Y", "Y").
		Update("sync_status", models.SyncSynced).Error; err != nil {
		return nil, err
	}

	result := &ExportResult{Path: localesDir, Exported: make(map[string]int)}
	for lang, m := range byLang {
		result.Exported[lang] = len(m)
	}
	return result, nil
}

// writeTranslationFiles stages every file in a temp location, then renames
// all of them. Any failure aborts the whole export before a single target
// file has been touched.
func writeTranslationFiles(localesDir string, byLang map[string]map[string]string) error {
	type staged struct {
		tmp, final string
	}
	var files []staged

	cleanup := func() {
		for _, f := range files {
			os.Remove(f.tmp)
		}
	}

	for _, lang := range models.MessageLanguages {
		dir := filepath.Join(localesDir, lang)
		if err := os.MkdirAll(dir, 0755); err != nil {
			cleanup()
			return fmt.Errorf("failed to create locales directory: %w", err)
		}

		data, err := json.MarshalIndent(byLang[lang], "", "  ")
		if err != nil {
			cleanup()
			return err
		}
		data = append(data, '\n')

		tmp, err := os.CreateTemp(dir, "translation-*.json.tmp")
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to stage translation file: %w", err)
		}
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			cleanup()
			return fmt.Errorf("failed to write translation file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			cleanup()
			return err
		}

		files = append(files, staged{tmp: tmp.Name(), final: filepath.Join(dir, "translation.json")})
	}

	for _, f := range files {
		if err := os.Rename(f.tmp, f.final); err != nil {
			cleanup()
			return fmt.Errorf("failed to publish translation file: %w", err)
		}
	}

	return nil
}

// upsertTexts writes the provided language variants, inserting or replacing
// the (msg_id, lang_code) row.
func upsertTexts(tx *gorm.DB, msgID string, textKo, textEn *string) error {
	upsert := func(lang string, text *string) error {
		if text == nil {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "msg_id"}, {Name: "lang_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"msg_text"}),
		}).Create(&models.MessageText{
			MsgID:    msgID,
			LangCode: lang,
			MsgText:  *text,
		}).Error
	}

	if err := upsert("ko", textKo); err != nil {
		return err
	}
	return upsert("en", textEn)
}
