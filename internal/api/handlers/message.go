package handlers

import (
	"errors"
	"tradeos/internal/config"
	"tradeos/internal/models"
	"tradeos/internal/services"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(cfg *config.Config) *MessageHandler {
	return &MessageHandler{
		messageService: services.NewMessageService(cfg),
	}
}

type MessageRequest struct {
	MsgID    string  `json:"msg_id"`
	MsgKey   string  `json:"msg_key"`
	MsgType  string  `json:"msg_type"`
	Category string  `json:"category"`
	UseYN    string  `json:"use_yn"`
	TextKo   *string `json:"text_ko"`
	TextEn   *string `json:"text_en"`
	ActorID  string  `json:"actor_id"`
}

// messageView flattens a message and its language texts for the admin screen
func messageView(m *models.Message) gin.H {
	view := gin.H{
		"msg_id":      m.MsgID,
		"msg_key":     m.MsgKey,
		"msg_type":    m.MsgType,
		"category":    m.Category,
		"export_yn":   m.ExportYN,
		"sync_stat":   m.SyncStatus,
		"use_yn":      m.UseYN,
		"description": m.Description,
		"reg_id":      m.RegID,
		"mod_id":      m.ModID,
		"reg_dt":      m.CreatedAt,
		"mod_dt":      m.UpdatedAt,
	}
	for _, t := range m.Texts {
		switch t.LangCode {
		case "ko":
			view["text_ko"] = t.MsgText
		case "en":
			view["text_en"] = t.MsgText
		}
	}
	return view
}

func (h *MessageHandler) actor(c *gin.Context, requested string) string {
	if requested != "" {
		return requested
	}
	if user, exists := c.Get("user"); exists {
		return user.(*models.User).LoginID
	}
	return "SYSTEM"
}

// ListMessages returns active messages with per-language texts
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messageService.ListMessages(services.MessageFilter{
		Category: c.Query("category"),
		Key:      c.Query("key"),
	})
	if err != nil {
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get messages"})
		return
	}

	views := make([]gin.H, 0, len(messages))
	for i := range messages {
		views = append(views, messageView(&messages[i]))
	}
	c.JSON(200, views)
}

// CreateMessage inserts a message and its language texts
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if req.MsgKey == "" || req.Category == "" {
		c.JSON(400, gin.H{"error": "msg_key and category are required"})
		return
	}

	msg, err := h.messageService.CreateMessage(services.MessageInput{
		MsgID:    req.MsgID,
		MsgKey:   req.MsgKey,
		MsgType:  req.MsgType,
		Category: req.Category,
		UseYN:    req.UseYN,
		TextKo:   req.TextKo,
		TextEn:   req.TextEn,
		ActorID:  h.actor(c, req.ActorID),
	})
	if err != nil {
		if errors.Is(err, services.ErrMessageExists) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to create message"})
		return
	}

	c.JSON(201, messageView(msg))
}

// UpdateMessage upserts language texts and marks the row CHANGED
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	msg, err := h.messageService.UpdateMessage(c.Param("id"), services.MessageInput{
		UseYN:   req.UseYN,
		TextKo:  req.TextKo,
		TextEn:  req.TextEn,
		ActorID: h.actor(c, req.ActorID),
	})
	if err != nil {
		if errors.Is(err, services.ErrMessageNotFound) {
			c.JSON(404, gin.H{"error": "Message not found"})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to update message"})
		return
	}

	c.JSON(200, messageView(msg))
}

// DeleteMessage removes a message and its texts
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	if err := h.messageService.DeleteMessage(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrMessageNotFound) {
			c.JSON(404, gin.H{"error": "Message not found"})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to delete message"})
		return
	}

	c.JSON(200, gin.H{"message": "Message deleted"})
}

// ExportMessages deploys the active message set to the translation files
func (h *MessageHandler) ExportMessages(c *gin.Context) {
	result, err := h.messageService.Export()
	if err != nil {
		c.Error(err)
		c.JSON(500, gin.H{"error": "Export failed"})
		return
	}

	c.JSON(200, gin.H{
		"message":  "Export successful",
		"path":     result.Path,
		"exported": result.Exported,
	})
}
