package services

import (
	"errors"
	"time"
	"tradeos/internal/config"
	"tradeos/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTradeNotFound   = errors.New("trade not found")
	ErrInvalidSide     = errors.New("side must be BUY or SELL")
	ErrInvalidQuantity = errors.New("quantity and price must be positive")
)

type TradeService struct {
	cfg *config.Config
}

func NewTradeService(cfg *config.Config) *TradeService {
	return &TradeService{cfg: cfg}
}

// TradeFilter narrows the trade listing for one user.
type TradeFilter struct {
	Symbol string
	Side   string
}

// TradeInput is the payload for creating or updating a trade.
type TradeInput struct {
	Symbol   string
	Side     string
	Quantity float64
	Price    float64
	TradedAt time.Time
	Note     string
}

// CapitalSummary aggregates a user's portfolio position.
type CapitalSummary struct {
	Deposits     float64 `json:"deposits"`
	Withdrawals  float64 `json:"withdrawals"`
	Invested     float64 `json:"invested"`
	CashBalance  float64 `json:"cash_balance"`
	TotalCapital float64 `json:"total_capital"`
	TradeCount   int64   `json:"trade_count"`
}

func validateTrade(in TradeInput) error {
	if in.Side != models.SideBuy && in.Side != models.SideSell {
		return ErrInvalidSide
	}
	if in.Quantity <= 0 || in.Price <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// ListTrades returns a user's trades, newest first
func (s *TradeService) ListTrades(userID uint, filter TradeFilter) ([]models.Trade, error) {
	query := models.DB.Where("user_id = ?", userID)

	if filter.Symbol != "" {
		query = query.Where("symbol = ?", filter.Symbol)
	}
	if filter.Side != "" {
		query = query.Where("side = ?", filter.Side)
	}

	var trades []models.Trade
	if err := query.Order("traded_at DESC, id DESC").Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// GetTrade returns one of the user's trades by id
func (s *TradeService) GetTrade(userID, id uint) (*models.Trade, error) {
	var trade models.Trade
	if err := models.DB.Where("user_id = ?", userID).First(&trade, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}

// CreateTrade records a new trade for the user
func (s *TradeService) CreateTrade(userID uint, in TradeInput) (*models.Trade, error) {
	if err := validateTrade(in); err != nil {
		return nil, err
	}

	tradedAt := in.TradedAt
	if tradedAt.IsZero() {
		tradedAt = time.Now()
	}

	trade := &models.Trade{
		UserID:   userID,
		Symbol:   in.Symbol,
		Side:     in.Side,
		Quantity: in.Quantity,
		Price:    in.Price,
		TradedAt: tradedAt,
		Note:     in.Note,
	}
	if err := models.DB.Create(trade).Error; err != nil {
		return nil, err
	}
	return trade, nil
}

// UpdateTrade rewrites an existing trade owned by the user
func (s *TradeService) UpdateTrade(userID, id uint, in TradeInput) (*models.Trade, error) {
	if err := validateTrade(in); err != nil {
		return nil, err
	}

	trade, err := s.GetTrade(userID, id)
	if err != nil {
		return nil, err
	}

	trade.Symbol = in.Symbol
	trade.Side = in.Side
	trade.Quantity = in.Quantity
	trade.Price = in.Price
	if !in.TradedAt.IsZero() {
		trade.TradedAt = in.TradedAt
	}
	trade.Note = in.Note

	if err := models.DB.Save(trade).Error; err != nil {
		return nil, err
	}
	return trade, nil
}

// DeleteTrade removes one of the user's trades
func (s *TradeService) DeleteTrade(userID, id uint) error {
	trade, err := s.GetTrade(userID, id)
	if err != nil {
		return err
	}
	return models.DB.Delete(trade).Error
}

// ListCapitalEntries returns a user's cash movements, newest first
func (s *TradeService) ListCapitalEntries(userID uint) ([]models.CapitalEntry, error) {
	var entries []models.CapitalEntry
	if err := models.DB.Where("user_id = ?", userID).Order("recorded_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateCapitalEntry records a deposit or withdrawal
func (s *TradeService) CreateCapitalEntry(userID uint, entryType string, amount float64, recordedAt time.Time, note string) (*models.CapitalEntry, error) {
	if entryType != models.CapitalDeposit && entryType != models.CapitalWithdrawal {
		return nil, errors.New("entry type must be DEPOSIT or WITHDRAWAL")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	entry := &models.CapitalEntry{
		UserID:     userID,
		EntryType:  entryType,
		Amount:     amount,
		RecordedAt: recordedAt,
		Note:       note,
	}
	if err := models.DB.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// GetCapitalSummary aggregates trades and cash movements into the portfolio
// figures shown on the dashboard. Invested is net cost of buys minus sells;
// cash is deposits minus withdrawals minus invested.
func (s *TradeService) GetCapitalSummary(userID uint) (*CapitalSummary, error) {
	summary := &CapitalSummary{}

	type sideSum struct {
		Side  string
		Total float64
	}
	var sums []sideSum
	if err := models.DB.Model(&models.Trade{}).
		Select("side, COALESCE(SUM(quantity * price), 0) AS total").
		Where("user_id = ?", userID).
		Group("side").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	var bought, sold float64
	for _, s := range sums {
		switch s.Side {
		case models.SideBuy:
			bought = s.Total
		case models.SideSell:
			sold = s.Total
		}
	}
	summary.Invested = bought - sold

	if err := models.DB.Model(&models.Trade{}).Where("user_id = ?", userID).Count(&summary.TradeCount).Error; err != nil {
		return nil, err
	}

	type typeSum struct {
		EntryType string
		Total     float64
	}
	var capSums []typeSum
	if err := models.DB.Model(&models.CapitalEntry{}).
		Select("entry_type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Group("entry_type").
		Scan(&capSums).Error; err != nil {
		return nil, err
	}

	for _, cs := range capSums {
		switch cs.EntryType {
		case models.CapitalDeposit:
			summary.Deposits = cs.Total
		case models.CapitalWithdrawal:
			summary.Withdrawals = cs.Total
		}
	}

	summary.CashBalance = summary.Deposits - summary.Withdrawals - summary.Invested
	summary.TotalCapital = summary.CashBalance + summary.Invested
	return summary, nil
}
