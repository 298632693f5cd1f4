package models

import (
	"github.com/shopspring/decimal"

	"grvtproxy/internal/exchange"
)

// DefaultSymbol - инструмент по умолчанию, как в исходном развёртывании
const DefaultSymbol = "BTC_USDT_Perp"

// OrderRequest - запрос на создание ордера.
//
// Инварианты (проверяются сервисом до обращения к бирже):
//   - amount > 0
//   - limit ордер обязан нести положительную цену
//   - market ордер цену не несёт (присланная игнорируется)
type OrderRequest struct {
	Symbol    string           `json:"symbol"`
	Side      string           `json:"side"`       // buy | sell
	Amount    decimal.Decimal  `json:"amount"`
	Price     *decimal.Decimal `json:"price,omitempty"` // обязательна для limit
	OrderType string           `json:"order_type"`      // limit | market
}

// CancelRequest - запрос на отмену одного ордера.
// Должен нести хотя бы один идентификатор; при обоих биржевой
// order_id имеет приоритет как авторитетный.
type CancelRequest struct {
	OrderID       string `json:"order_id,omitempty"`
	ClientOrderID uint32 `json:"client_order_id,omitempty"`
}

// OrderTicket - результат создания ордера: локально сгенерированный
// client_order_id вместе с подтверждением биржи.
//
// ClientOrderID генерируется до отправки, поэтому известен
// вызывающему даже если биржа ответила ошибкой на полпути.
type OrderTicket struct {
	ClientOrderID uint32             `json:"client_order_id"`
	Ack           *exchange.OrderAck `json:"response"`
}
