package handlers

import (
	"errors"
	"strconv"
	"time"
	"tradeos/internal/config"
	"tradeos/internal/services"

	"github.com/gin-gonic/gin"
)

type TradeHandler struct {
	tradeService *services.TradeService
}

func NewTradeHandler(cfg *config.Config) *TradeHandler {
	return &TradeHandler{
		tradeService: services.NewTradeService(cfg),
	}
}

type TradeRequest struct {
	Symbol   string     `json:"symbol" binding:"required"`
	Side     string     `json:"side" binding:"required"`
	Quantity float64    `json:"quantity" binding:"required"`
	Price    float64    `json:"price" binding:"required"`
	TradedAt *time.Time `json:"traded_at"`
	Note     string     `json:"note"`
}

type CapitalEntryRequest struct {
	EntryType  string     `json:"entry_type" binding:"required"`
	Amount     float64    `json:"amount" binding:"required"`
	RecordedAt *time.Time `json:"recorded_at"`
	Note       string     `json:"note"`
}

func (r TradeRequest) toInput() services.TradeInput {
	in := services.TradeInput{
		Symbol:   r.Symbol,
		Side:     r.Side,
		Quantity: r.Quantity,
		Price:    r.Price,
		Note:     r.Note,
	}
	if r.TradedAt != nil {
		in.TradedAt = *r.TradedAt
	}
	return in
}

// ListTrades returns the current user's trades, newest first
func (h *TradeHandler) ListTrades(c *gin.Context) {
	userID := c.GetUint("user_id")

	trades, err := h.tradeService.ListTrades(userID, services.TradeFilter{
		Symbol: c.Query("symbol"),
		Side:   c.Query("side"),
	})
	if err != nil {
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get trades"})
		return
	}

	c.JSON(200, gin.H{"trades": trades})
}

// GetTrade returns one of the current user's trades
func (h *TradeHandler) GetTrade(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid trade ID"})
		return
	}

	trade, err := h.tradeService.GetTrade(c.GetUint("user_id"), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrTradeNotFound) {
			c.JSON(404, gin.H{"error": "Trade not found"})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get trade"})
		return
	}

	c.JSON(200, trade)
}

// CreateTrade records a new trade for the current user
func (h *TradeHandler) CreateTrade(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	trade, err := h.tradeService.CreateTrade(c.GetUint("user_id"), req.toInput())
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(201, trade)
}

// UpdateTrade rewrites one of the current user's trades
func (h *TradeHandler) UpdateTrade(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid trade ID"})
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	trade, err := h.tradeService.UpdateTrade(c.GetUint("user_id"), uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrTradeNotFound) {
			c.JSON(404, gin.H{"error": "Trade not found"})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, trade)
}

// DeleteTrade removes one of the current user's trades
func (h *TradeHandler) DeleteTrade(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid trade ID"})
		return
	}

	if err := h.tradeService.DeleteTrade(c.GetUint("user_id"), uint(id)); err != nil {
		if errors.Is(err, services.ErrTradeNotFound) {
			c.JSON(404, gin.H{"error": "Trade not found"})
			return
		}
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to delete trade"})
		return
	}

	c.JSON(200, gin.H{"message": "Trade deleted successfully"})
}

// GetCapitalSummary returns the dashboard aggregation for the current user
func (h *TradeHandler) GetCapitalSummary(c *gin.Context) {
	summary, err := h.tradeService.GetCapitalSummary(c.GetUint("user_id"))
	if err != nil {
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get capital summary"})
		return
	}

	c.JSON(200, summary)
}

// ListCapitalEntries returns the current user's cash movements
func (h *TradeHandler) ListCapitalEntries(c *gin.Context) {
	entries, err := h.tradeService.ListCapitalEntries(c.GetUint("user_id"))
	if err != nil {
		c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to get capital entries"})
		return
	}

	c.JSON(200, gin.H{"entries": entries})
}

// CreateCapitalEntry records a deposit or withdrawal for the current user
func (h *TradeHandler) CreateCapitalEntry(c *gin.Context) {
	var req CapitalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	recordedAt := time.Time{}
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	entry, err := h.tradeService.CreateCapitalEntry(c.GetUint("user_id"), req.EntryType, req.Amount, recordedAt, req.Note)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(201, entry)
}
