package handlers

import (
	"context"

	"grvtproxy/internal/exchange"
	"grvtproxy/internal/models"
)

// ============================================================
// Ручные моки сервисных интерфейсов
// ============================================================

type mockOrderManager struct {
	SubmitFunc    func(ctx context.Context, req models.OrderRequest) (*models.OrderTicket, error)
	CancelFunc    func(ctx context.Context, req models.CancelRequest) (*exchange.CancelAck, error)
	CancelAllFunc func(ctx context.Context) (*exchange.CancelAllAck, error)
	OpenFunc      func(ctx context.Context, symbol string) ([]exchange.Order, error)
}

func (m *mockOrderManager) SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderTicket, error) {
	return m.SubmitFunc(ctx, req)
}

func (m *mockOrderManager) CancelOrder(ctx context.Context, req models.CancelRequest) (*exchange.CancelAck, error) {
	return m.CancelFunc(ctx, req)
}

func (m *mockOrderManager) CancelAllOrders(ctx context.Context) (*exchange.CancelAllAck, error) {
	return m.CancelAllFunc(ctx)
}

func (m *mockOrderManager) OpenOrders(ctx context.Context, symbol string) ([]exchange.Order, error) {
	return m.OpenFunc(ctx, symbol)
}

type mockRiskManager struct {
	SummaryFunc  func(ctx context.Context) (*models.RiskSummary, error)
	SetRatioFunc func(ctx context.Context, ratio string) error
}

func (m *mockRiskManager) RiskSummary(ctx context.Context) (*models.RiskSummary, error) {
	return m.SummaryFunc(ctx)
}

func (m *mockRiskManager) SetDeriskRatio(ctx context.Context, ratio string) error {
	return m.SetRatioFunc(ctx, ratio)
}

type mockMarketProvider struct {
	MarketsFunc   func(ctx context.Context) ([]exchange.Market, error)
	TickerFunc    func(ctx context.Context, symbol string) (*exchange.Ticker, error)
	OrderBookFunc func(ctx context.Context, symbol string, limit int) (*exchange.OrderBook, error)
	InfoFunc      func() (*exchange.ExchangeInfo, error)
}

func (m *mockMarketProvider) Markets(ctx context.Context) ([]exchange.Market, error) {
	return m.MarketsFunc(ctx)
}

func (m *mockMarketProvider) Ticker(ctx context.Context, symbol string) (*exchange.Ticker, error) {
	return m.TickerFunc(ctx, symbol)
}

func (m *mockMarketProvider) OrderBook(ctx context.Context, symbol string, limit int) (*exchange.OrderBook, error) {
	return m.OrderBookFunc(ctx, symbol, limit)
}

func (m *mockMarketProvider) ExchangeInfo() (*exchange.ExchangeInfo, error) {
	return m.InfoFunc()
}

type mockHistoryProvider struct {
	OrdersFunc  func(ctx context.Context, limit int) ([]exchange.Order, error)
	TradesFunc  func(ctx context.Context, symbol string, limit int) ([]exchange.Trade, error)
	FundingFunc func(ctx context.Context, symbol string, sinceMillis *int64, limit int) ([]exchange.FundingRate, error)
	LedgerFunc  func(ctx context.Context, limit int) ([]exchange.LedgerEntry, error)
}

func (m *mockHistoryProvider) OrderHistory(ctx context.Context, limit int) ([]exchange.Order, error) {
	return m.OrdersFunc(ctx, limit)
}

func (m *mockHistoryProvider) MyTrades(ctx context.Context, symbol string, limit int) ([]exchange.Trade, error) {
	return m.TradesFunc(ctx, symbol, limit)
}

func (m *mockHistoryProvider) FundingHistory(ctx context.Context, symbol string, sinceMillis *int64, limit int) ([]exchange.FundingRate, error) {
	return m.FundingFunc(ctx, symbol, sinceMillis, limit)
}

func (m *mockHistoryProvider) AccountHistory(ctx context.Context, limit int) ([]exchange.LedgerEntry, error) {
	return m.LedgerFunc(ctx, limit)
}
