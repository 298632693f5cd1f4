package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Role определяет назначение сессии GRVT
type Role string

const (
	// RoleRead - сессия только для чтения: маркет-дата, балансы, позиции, история
	RoleRead Role = "read"

	// RoleTrade - сессия для торговых действий: создание и отмена ордеров,
	// изменение риск-параметров
	RoleTrade Role = "trade"
)

// Session определяет интерфейс авторизованной сессии биржи GRVT.
//
// Шлюз держит две сессии одновременно (read и trade) с разными
// credential-наборами. Сессия потокобезопасна: несколько запросов
// могут использовать её конкурентно.
type Session interface {
	// Role возвращает назначение сессии
	Role() Role

	// FetchMarkets возвращает список доступных инструментов
	FetchMarkets(ctx context.Context) ([]Market, error)

	// FetchTicker возвращает текущий тикер инструмента
	FetchTicker(ctx context.Context, symbol string) (*Ticker, error)

	// FetchOrderBook возвращает срез стакана заданной глубины
	FetchOrderBook(ctx context.Context, symbol string, limit int) (*OrderBook, error)

	// FetchBalance возвращает балансы кошелька (free/used/total)
	FetchBalance(ctx context.Context) ([]Balance, error)

	// FetchPositions возвращает открытые позиции по списку символов
	FetchPositions(ctx context.Context, symbols []string) ([]Position, error)

	// GetAccountSummary возвращает сводку аккаунта указанного типа
	// (обычно "sub-account")
	GetAccountSummary(ctx context.Context, summaryType string) (*AccountSummary, error)

	// CreateOrder отправляет ордер на биржу
	CreateOrder(ctx context.Context, params CreateOrderParams) (*OrderAck, error)

	// CancelOrder отменяет один ордер по биржевому или клиентскому id
	CancelOrder(ctx context.Context, params CancelOrderParams) (*CancelAck, error)

	// CancelAllOrders отменяет все открытые ордера аккаунта
	CancelAllOrders(ctx context.Context, timeToLiveMs int64) (*CancelAllAck, error)

	// FetchOpenOrders возвращает неисполненные ордера по символу
	FetchOpenOrders(ctx context.Context, symbol string) ([]Order, error)

	// FetchOrderHistory возвращает историю ордеров
	FetchOrderHistory(ctx context.Context, limit int) ([]Order, error)

	// FetchMyTrades возвращает историю собственных сделок по символу
	FetchMyTrades(ctx context.Context, symbol string, limit int) ([]Trade, error)

	// FetchFundingHistory возвращает историю ставок финансирования.
	// sinceNanos - нижняя граница в наносекундах Unix; nil означает
	// "не передавать параметр вовсе".
	FetchFundingHistory(ctx context.Context, symbol string, sinceNanos *int64, limit int) ([]FundingRate, error)

	// FetchAccountHistory возвращает журнал движений средств аккаунта
	FetchAccountHistory(ctx context.Context, limit int) ([]LedgerEntry, error)

	// SetDeriskRatio устанавливает derisk-to-maintenance-margin ratio.
	// Значение передаётся бирже как есть, без локальной валидации.
	SetDeriskRatio(ctx context.Context, ratio string) error

	// Describe возвращает статическое описание возможностей биржи
	Describe() *ExchangeInfo

	// SubscribeTicker подписывается на обновления тикера через WebSocket
	SubscribeTicker(symbol string, callback func(*Ticker)) error

	// Close закрывает соединения сессии
	Close() error
}

// Market описывает торговый инструмент
type Market struct {
	Symbol       string          `json:"symbol"`
	Base         string          `json:"base"`
	Quote        string          `json:"quote"`
	Kind         string          `json:"kind"` // PERPETUAL, FUTURE
	TickSize     decimal.Decimal `json:"tick_size"`
	MinSize      decimal.Decimal `json:"min_size"`
	MaxPositionSize *decimal.Decimal `json:"max_position_size,omitempty"`
}

// Ticker содержит текущее состояние инструмента
type Ticker struct {
	Symbol      string           `json:"symbol"`
	BidPrice    decimal.Decimal  `json:"bid_price"`
	AskPrice    decimal.Decimal  `json:"ask_price"`
	LastPrice   decimal.Decimal  `json:"last_price"`
	MarkPrice   *decimal.Decimal `json:"mark_price,omitempty"`
	FundingRate *decimal.Decimal `json:"funding_rate,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// OrderBook представляет срез стакана
type OrderBook struct {
	Symbol    string       `json:"symbol"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Timestamp time.Time    `json:"timestamp"`
}

// PriceLevel представляет уровень цены в стакане
type PriceLevel struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// Balance представляет баланс одной валюты кошелька
type Balance struct {
	Currency string          `json:"currency"`
	Free     decimal.Decimal `json:"free"`
	Used     decimal.Decimal `json:"used"`
	Total    decimal.Decimal `json:"total"`
}

// Position представляет открытую позицию
type Position struct {
	Symbol        string           `json:"symbol"`
	Side          string           `json:"side"` // "long" или "short"
	Size          decimal.Decimal  `json:"size"`
	EntryPrice    decimal.Decimal  `json:"entry_price"`
	MarkPrice     *decimal.Decimal `json:"mark_price,omitempty"`
	UnrealizedPnl *decimal.Decimal `json:"unrealized_pnl,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// AccountSummary - сводка аккаунта.
// Маржинальные поля опциональны: биржа может их не прислать,
// и это не считается ошибкой вызова.
type AccountSummary struct {
	AccountID                      string           `json:"account_id"`
	SummaryType                    string           `json:"summary_type"`
	TotalEquity                    *decimal.Decimal `json:"total_equity,omitempty"`
	AvailableBalance               *decimal.Decimal `json:"available_balance,omitempty"`
	InitialMargin                  *decimal.Decimal `json:"initial_margin,omitempty"`
	MaintenanceMargin              *decimal.Decimal `json:"maintenance_margin,omitempty"`
	DeriskMargin                   *decimal.Decimal `json:"derisk_margin,omitempty"`
	DeriskToMaintenanceMarginRatio *decimal.Decimal `json:"derisk_to_maintenance_margin_ratio,omitempty"`
}

// CreateOrderParams - параметры создания ордера.
// ClientOrderID генерируется шлюзом до отправки и прикладывается
// к запросу для последующей корреляции и отмены.
type CreateOrderParams struct {
	Symbol        string
	Side          string // "buy" или "sell"
	OrderType     string // "limit" или "market"
	Amount        decimal.Decimal
	Price         *decimal.Decimal // только для limit
	ClientOrderID uint32
}

// CancelOrderParams - параметры отмены ордера.
// Заполняется ровно один из идентификаторов; при обоих биржевой
// OrderID имеет приоритет (он авторитетен).
type CancelOrderParams struct {
	OrderID       string
	ClientOrderID uint32
	TimeToLiveMs  int64 // срок жизни запроса отмены на стороне биржи
}

// OrderAck - подтверждение биржи на создание ордера
type OrderAck struct {
	OrderID       string           `json:"order_id"`
	ClientOrderID uint32           `json:"client_order_id"`
	Symbol        string           `json:"symbol"`
	Side          string           `json:"side"`
	OrderType     string           `json:"order_type"`
	Status        string           `json:"status"`
	Amount        decimal.Decimal  `json:"amount"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CancelAck - подтверждение отмены одного ордера
type CancelAck struct {
	OrderID       string `json:"order_id,omitempty"`
	ClientOrderID uint32 `json:"client_order_id,omitempty"`
	Success       bool   `json:"success"`
}

// CancelAllAck - результат массовой отмены
type CancelAllAck struct {
	Success        bool `json:"success"`
	CancelledCount int  `json:"cancelled_count"`
}

// Order представляет ордер (открытый или исторический)
type Order struct {
	OrderID       string           `json:"order_id"`
	ClientOrderID uint32           `json:"client_order_id,omitempty"`
	Symbol        string           `json:"symbol"`
	Side          string           `json:"side"`
	OrderType     string           `json:"order_type"`
	Status        string           `json:"status"`
	Amount        decimal.Decimal  `json:"amount"`
	Filled        decimal.Decimal  `json:"filled"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Trade представляет собственную сделку
type Trade struct {
	TradeID   string          `json:"trade_id"`
	OrderID   string          `json:"order_id"`
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side"`
	Price     decimal.Decimal `json:"price"`
	Size      decimal.Decimal `json:"size"`
	Fee       decimal.Decimal `json:"fee"`
	IsMaker   bool            `json:"is_maker"`
	Timestamp time.Time       `json:"timestamp"`
}

// FundingRate - точка истории ставки финансирования
type FundingRate struct {
	Symbol    string           `json:"symbol"`
	Rate      decimal.Decimal  `json:"rate"`
	MarkPrice *decimal.Decimal `json:"mark_price,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// LedgerEntry - запись журнала движений средств аккаунта
type LedgerEntry struct {
	TxID      string          `json:"tx_id"`
	TxType    string          `json:"tx_type"` // deposit, withdrawal, funding, fee, pnl
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// ExchangeInfo - статическое описание возможностей биржи
type ExchangeInfo struct {
	Name            string            `json:"name"`
	Environment     string            `json:"environment"`
	Testnet         bool              `json:"testnet"`
	RateLimit       float64           `json:"rate_limit"` // запросов в секунду
	Hosts           map[string]string `json:"hosts"`
	OrderTypes      []string          `json:"order_types"`
	SupportedKinds  []string          `json:"supported_kinds"`
}

// Side constants for orders
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Order type constants
const (
	OrderTypeLimit  = "limit"
	OrderTypeMarket = "market"
)

// Account summary type по умолчанию
const SummaryTypeSubAccount = "sub-account"

// ErrNotSubscribable возвращается при подписке на поток,
// который сессия не поддерживает
var ErrNotSubscribable = errors.New("session does not support streaming")

// CallError представляет ошибку вызова биржи: отказ, таймаут,
// транспортный сбой. Любая ошибка connectivity-слоя заворачивается
// в CallError, чтобы наверх не протекали сырые транспортные детали.
type CallError struct {
	Op      string // операция шлюза: create_order, fetch_ticker, ...
	Code    string // код ошибки биржи, если есть
	Message string
	Cause   error
}

func (e *CallError) Error() string {
	if e.Code != "" {
		return "grvt " + e.Op + ": [" + e.Code + "] " + e.Message
	}
	return "grvt " + e.Op + ": " + e.Message
}

// Unwrap возвращает исходную ошибку для errors.Is() и errors.As()
func (e *CallError) Unwrap() error {
	return e.Cause
}

// IsCallError сообщает, является ли ошибка ошибкой вызова биржи
func IsCallError(err error) bool {
	var ce *CallError
	return errors.As(err, &ce)
}
