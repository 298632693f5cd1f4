package service

import (
	"context"

	"grvtproxy/internal/exchange"
	"grvtproxy/internal/models"
)

// SessionProvider выдаёт сессии биржи по их роли.
// Сервисы зависят от этого интерфейса, а не от конкретного
// реестра, что упрощает подмену в тестах.
type SessionProvider interface {
	ReadSession() (exchange.Session, error)
	TradeSession() (exchange.Session, error)
}

// MarketDataProvider - интерфейс сервиса маркет-даты
type MarketDataProvider interface {
	Markets(ctx context.Context) ([]exchange.Market, error)
	Ticker(ctx context.Context, symbol string) (*exchange.Ticker, error)
	OrderBook(ctx context.Context, symbol string, limit int) (*exchange.OrderBook, error)
	ExchangeInfo() (*exchange.ExchangeInfo, error)
}

// AccountProvider - интерфейс сервиса данных аккаунта
type AccountProvider interface {
	Balance(ctx context.Context) ([]exchange.Balance, error)
	Positions(ctx context.Context, symbols []string) ([]exchange.Position, error)
	Summary(ctx context.Context, summaryType string) (*exchange.AccountSummary, error)
}

// OrderManager - интерфейс торгового сервиса
type OrderManager interface {
	SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderTicket, error)
	CancelOrder(ctx context.Context, req models.CancelRequest) (*exchange.CancelAck, error)
	CancelAllOrders(ctx context.Context) (*exchange.CancelAllAck, error)
	OpenOrders(ctx context.Context, symbol string) ([]exchange.Order, error)
}

// RiskManager - интерфейс риск-сервиса
type RiskManager interface {
	RiskSummary(ctx context.Context) (*models.RiskSummary, error)
	SetDeriskRatio(ctx context.Context, ratio string) error
}

// HistoryProvider - интерфейс сервиса исторических данных
type HistoryProvider interface {
	OrderHistory(ctx context.Context, limit int) ([]exchange.Order, error)
	MyTrades(ctx context.Context, symbol string, limit int) ([]exchange.Trade, error)
	FundingHistory(ctx context.Context, symbol string, sinceMillis *int64, limit int) ([]exchange.FundingRate, error)
	AccountHistory(ctx context.Context, limit int) ([]exchange.LedgerEntry, error)
}
