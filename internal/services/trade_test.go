package services

import (
	"testing"
	"time"
	"tradeos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeCRUD(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	authService := NewAuthService(cfg)
	svc := NewTradeService(cfg)

	owner := registerActiveUser(t, authService, "trader", "secret1")
	other := registerActiveUser(t, authService, "other", "secret1")

	t.Run("create and list newest first", func(t *testing.T) {
		_, err := svc.CreateTrade(owner.ID, TradeInput{
			Symbol: "AAPL", Side: models.SideBuy, Quantity: 10, Price: 150,
			TradedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		_, err = svc.CreateTrade(owner.ID, TradeInput{
			Symbol: "MSFT", Side: models.SideBuy, Quantity: 5, Price: 400,
			TradedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		trades, err := svc.ListTrades(owner.ID, TradeFilter{})
		require.NoError(t, err)
		require.Len(t, trades, 2)
		assert.Equal(t, "MSFT", trades[0].Symbol)
	})

	t.Run("filters by symbol and side", func(t *testing.T) {
		trades, err := svc.ListTrades(owner.ID, TradeFilter{Symbol: "AAPL"})
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, "AAPL", trades[0].Symbol)
	})

	t.Run("rejects invalid side and amounts", func(t *testing.T) {
		_, err := svc.CreateTrade(owner.ID, TradeInput{Symbol: "AAPL", Side: "HOLD", Quantity: 1, Price: 1})
		assert.ErrorIs(t, err, ErrInvalidSide)

		_, err = svc.CreateTrade(owner.ID, TradeInput{Symbol: "AAPL", Side: models.SideBuy, Quantity: 0, Price: 1})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("trades are scoped to their owner", func(t *testing.T) {
		trades, err := svc.ListTrades(owner.ID, TradeFilter{})
		require.NoError(t, err)
		require.NotEmpty(t, trades)

		_, err = svc.GetTrade(other.ID, trades[0].ID)
		assert.ErrorIs(t, err, ErrTradeNotFound)

		assert.ErrorIs(t, svc.DeleteTrade(other.ID, trades[0].ID), ErrTradeNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		trade, err := svc.CreateTrade(owner.ID, TradeInput{
			Symbol: "NVDA", Side: models.SideBuy, Quantity: 2, Price: 800,
		})
		require.NoError(t, err)

		updated, err := svc.UpdateTrade(owner.ID, trade.ID, TradeInput{
			Symbol: "NVDA", Side: models.SideSell, Quantity: 2, Price: 900, Note: "take profit",
		})
		require.NoError(t, err)
		assert.Equal(t, models.SideSell, updated.Side)
		assert.Equal(t, 900.0, updated.Price)

		require.NoError(t, svc.DeleteTrade(owner.ID, trade.ID))
		_, err = svc.GetTrade(owner.ID, trade.ID)
		assert.ErrorIs(t, err, ErrTradeNotFound)
	})
}

func TestCapitalSummary(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	authService := NewAuthService(cfg)
	svc := NewTradeService(cfg)

	user := registerActiveUser(t, authService, "investor", "secret1")

	_, err := svc.CreateCapitalEntry(user.ID, models.CapitalDeposit, 10000, time.Time{}, "initial funding")
	require.NoError(t, err)
	_, err = svc.CreateCapitalEntry(user.ID, models.CapitalWithdrawal, 1000, time.Time{}, "")
	require.NoError(t, err)

	_, err = svc.CreateTrade(user.ID, TradeInput{Symbol: "AAPL", Side: models.SideBuy, Quantity: 10, Price: 150})
	require.NoError(t, err)
	_, err = svc.CreateTrade(user.ID, TradeInput{Symbol: "AAPL", Side: models.SideSell, Quantity: 2, Price: 200})
	require.NoError(t, err)

	summary, err := svc.GetCapitalSummary(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 10000.0, summary.Deposits)
	assert.Equal(t, 1000.0, summary.Withdrawals)
	assert.Equal(t, 1100.0, summary.Invested) // 1500 bought - 400 sold
	assert.Equal(t, 7900.0, summary.CashBalance)
	assert.Equal(t, 9000.0, summary.TotalCapital)
	assert.Equal(t, int64(2), summary.TradeCount)

	t.Run("invalid capital entries are rejected", func(t *testing.T) {
		_, err := svc.CreateCapitalEntry(user.ID, "TRANSFER", 100, time.Time{}, "")
		assert.Error(t, err)

		_, err = svc.CreateCapitalEntry(user.ID, models.CapitalDeposit, -5, time.Time{}, "")
		assert.Error(t, err)
	})

	t.Run("empty account sums to zero", func(t *testing.T) {
		empty := registerActiveUser(t, authService, "newbie", "secret1")
		summary, err := svc.GetCapitalSummary(empty.ID)
		require.NoError(t, err)
		assert.Zero(t, summary.TotalCapital)
		assert.Zero(t, summary.TradeCount)
	})
}
