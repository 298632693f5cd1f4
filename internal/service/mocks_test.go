package service

import (
	"context"
	"sync"

	"grvtproxy/internal/exchange"
)

// ============================================================
// Ручные моки для тестов сервисного слоя
// ============================================================

// MockSession реализует exchange.Session, записывая параметры
// вызовов. Поведение переопределяется через функциональные поля;
// по умолчанию методы возвращают пустые успешные ответы.
type MockSession struct {
	mu sync.Mutex

	role exchange.Role

	// записанные параметры последних вызовов
	CreateOrderCalls   []exchange.CreateOrderParams
	CancelOrderCalls   []exchange.CancelOrderParams
	CancelAllCalls     []int64
	FundingCalls       []fundingCall
	SummaryCalls       []string
	SetRatioCalls      []string
	OpenOrdersSymbols  []string
	TickerSymbols      []string
	OrderBookCalls     []bookCall
	PositionsCalls     [][]string
	OrderHistoryLimits []int
	TradesCalls        []tradesCall
	LedgerLimits       []int
	Closed             bool

	// переопределяемое поведение
	CreateOrderFunc func(ctx context.Context, params exchange.CreateOrderParams) (*exchange.OrderAck, error)
	CancelOrderFunc func(ctx context.Context, params exchange.CancelOrderParams) (*exchange.CancelAck, error)
	SummaryFunc     func(ctx context.Context, summaryType string) (*exchange.AccountSummary, error)
	SetRatioFunc    func(ctx context.Context, ratio string) error
}

type fundingCall struct {
	symbol     string
	sinceNanos *int64
	limit      int
}

type bookCall struct {
	symbol string
	limit  int
}

type tradesCall struct {
	symbol string
	limit  int
}

func NewMockSession(role exchange.Role) *MockSession {
	return &MockSession{role: role}
}

func (m *MockSession) Role() exchange.Role { return m.role }

func (m *MockSession) FetchMarkets(ctx context.Context) ([]exchange.Market, error) {
	return []exchange.Market{}, nil
}

func (m *MockSession) FetchTicker(ctx context.Context, symbol string) (*exchange.Ticker, error) {
	m.mu.Lock()
	m.TickerSymbols = append(m.TickerSymbols, symbol)
	m.mu.Unlock()
	return &exchange.Ticker{Symbol: symbol}, nil
}

func (m *MockSession) FetchOrderBook(ctx context.Context, symbol string, limit int) (*exchange.OrderBook, error) {
	m.mu.Lock()
	m.OrderBookCalls = append(m.OrderBookCalls, bookCall{symbol, limit})
	m.mu.Unlock()
	return &exchange.OrderBook{Symbol: symbol}, nil
}

func (m *MockSession) FetchBalance(ctx context.Context) ([]exchange.Balance, error) {
	return []exchange.Balance{}, nil
}

func (m *MockSession) FetchPositions(ctx context.Context, symbols []string) ([]exchange.Position, error) {
	m.mu.Lock()
	m.PositionsCalls = append(m.PositionsCalls, symbols)
	m.mu.Unlock()
	return []exchange.Position{}, nil
}

func (m *MockSession) GetAccountSummary(ctx context.Context, summaryType string) (*exchange.AccountSummary, error) {
	m.mu.Lock()
	m.SummaryCalls = append(m.SummaryCalls, summaryType)
	m.mu.Unlock()
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, summaryType)
	}
	return &exchange.AccountSummary{SummaryType: summaryType}, nil
}

func (m *MockSession) CreateOrder(ctx context.Context, params exchange.CreateOrderParams) (*exchange.OrderAck, error) {
	m.mu.Lock()
	m.CreateOrderCalls = append(m.CreateOrderCalls, params)
	m.mu.Unlock()
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, params)
	}
	return &exchange.OrderAck{
		OrderID:       "mock-order",
		ClientOrderID: params.ClientOrderID,
		Symbol:        params.Symbol,
		Status:        "OPEN",
	}, nil
}

func (m *MockSession) CancelOrder(ctx context.Context, params exchange.CancelOrderParams) (*exchange.CancelAck, error) {
	m.mu.Lock()
	m.CancelOrderCalls = append(m.CancelOrderCalls, params)
	m.mu.Unlock()
	if m.CancelOrderFunc != nil {
		return m.CancelOrderFunc(ctx, params)
	}
	return &exchange.CancelAck{OrderID: params.OrderID, ClientOrderID: params.ClientOrderID, Success: true}, nil
}

func (m *MockSession) CancelAllOrders(ctx context.Context, timeToLiveMs int64) (*exchange.CancelAllAck, error) {
	m.mu.Lock()
	m.CancelAllCalls = append(m.CancelAllCalls, timeToLiveMs)
	m.mu.Unlock()
	return &exchange.CancelAllAck{Success: true}, nil
}

func (m *MockSession) FetchOpenOrders(ctx context.Context, symbol string) ([]exchange.Order, error) {
	m.mu.Lock()
	m.OpenOrdersSymbols = append(m.OpenOrdersSymbols, symbol)
	m.mu.Unlock()
	return []exchange.Order{}, nil
}

func (m *MockSession) FetchOrderHistory(ctx context.Context, limit int) ([]exchange.Order, error) {
	m.mu.Lock()
	m.OrderHistoryLimits = append(m.OrderHistoryLimits, limit)
	m.mu.Unlock()
	return []exchange.Order{}, nil
}

func (m *MockSession) FetchMyTrades(ctx context.Context, symbol string, limit int) ([]exchange.Trade, error) {
	m.mu.Lock()
	m.TradesCalls = append(m.TradesCalls, tradesCall{symbol, limit})
	m.mu.Unlock()
	return []exchange.Trade{}, nil
}

func (m *MockSession) FetchFundingHistory(ctx context.Context, symbol string, sinceNanos *int64, limit int) ([]exchange.FundingRate, error) {
	m.mu.Lock()
	m.FundingCalls = append(m.FundingCalls, fundingCall{symbol, sinceNanos, limit})
	m.mu.Unlock()
	return []exchange.FundingRate{}, nil
}

func (m *MockSession) FetchAccountHistory(ctx context.Context, limit int) ([]exchange.LedgerEntry, error) {
	m.mu.Lock()
	m.LedgerLimits = append(m.LedgerLimits, limit)
	m.mu.Unlock()
	return []exchange.LedgerEntry{}, nil
}

func (m *MockSession) SetDeriskRatio(ctx context.Context, ratio string) error {
	m.mu.Lock()
	m.SetRatioCalls = append(m.SetRatioCalls, ratio)
	m.mu.Unlock()
	if m.SetRatioFunc != nil {
		return m.SetRatioFunc(ctx, ratio)
	}
	return nil
}

func (m *MockSession) Describe() *exchange.ExchangeInfo {
	return &exchange.ExchangeInfo{Name: "grvt", Environment: "testnet", Testnet: true}
}

func (m *MockSession) SubscribeTicker(symbol string, callback func(*exchange.Ticker)) error {
	return nil
}

func (m *MockSession) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	return nil
}

var _ exchange.Session = (*MockSession)(nil)

// MockProvider реализует SessionProvider поверх двух моков
type MockProvider struct {
	Read  *MockSession
	Trade *MockSession

	// NotReady имитирует неинициализированный реестр
	NotReady bool
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		Read:  NewMockSession(exchange.RoleRead),
		Trade: NewMockSession(exchange.RoleTrade),
	}
}

func (p *MockProvider) ReadSession() (exchange.Session, error) {
	if p.NotReady {
		return nil, ErrNotReady
	}
	return p.Read, nil
}

func (p *MockProvider) TradeSession() (exchange.Session, error) {
	if p.NotReady {
		return nil, ErrNotReady
	}
	return p.Trade, nil
}
