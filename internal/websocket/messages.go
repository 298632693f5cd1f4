package websocket

import (
	"time"

	"github.com/shopspring/decimal"

	"grvtproxy/internal/exchange"
)

// Типы сообщений исходящего потока
const (
	MessageTypeTicker = "ticker"
)

// TickerUpdateMessage - обновление тикера инструмента,
// транслируемое клиентам /ws/stream
type TickerUpdateMessage struct {
	Type      string           `json:"type"`
	Symbol    string           `json:"symbol"`
	BidPrice  decimal.Decimal  `json:"bid_price"`
	AskPrice  decimal.Decimal  `json:"ask_price"`
	LastPrice decimal.Decimal  `json:"last_price"`
	MarkPrice *decimal.Decimal `json:"mark_price,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// TickerUpdateFrom строит сообщение потока из тикера биржи
func TickerUpdateFrom(ticker *exchange.Ticker) *TickerUpdateMessage {
	return &TickerUpdateMessage{
		Type:      MessageTypeTicker,
		Symbol:    ticker.Symbol,
		BidPrice:  ticker.BidPrice,
		AskPrice:  ticker.AskPrice,
		LastPrice: ticker.LastPrice,
		MarkPrice: ticker.MarkPrice,
		Timestamp: ticker.Timestamp,
	}
}
