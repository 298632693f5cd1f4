package service

import (
	"context"

	"go.uber.org/zap"

	"grvtproxy/internal/exchange"
	"grvtproxy/internal/models"
	"grvtproxy/pkg/utils"
)

// Ограничения глубины стакана
const (
	defaultBookDepth = 10
	maxBookDepth     = 500
)

// MarketService отдаёт публичную маркет-дату через read-сессию
type MarketService struct {
	sessions SessionProvider
	logger   *zap.Logger
}

func NewMarketService(sessions SessionProvider, logger *zap.Logger) *MarketService {
	return &MarketService{sessions: sessions, logger: logger}
}

// Markets возвращает список доступных инструментов
func (s *MarketService) Markets(ctx context.Context) ([]exchange.Market, error) {
	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchMarkets(ctx)
}

// Ticker возвращает текущий тикер инструмента
func (s *MarketService) Ticker(ctx context.Context, symbol string) (*exchange.Ticker, error) {
	if symbol == "" {
		symbol = models.DefaultSymbol
	}
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, ErrInvalidSymbol
	}

	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchTicker(ctx, symbol)
}

// OrderBook возвращает срез стакана. Глубина ограничивается
// диапазоном [1, maxBookDepth], при нуле берётся defaultBookDepth.
func (s *MarketService) OrderBook(ctx context.Context, symbol string, limit int) (*exchange.OrderBook, error) {
	if symbol == "" {
		symbol = models.DefaultSymbol
	}
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, ErrInvalidSymbol
	}
	limit = utils.ClampLimit(limit, defaultBookDepth, maxBookDepth)

	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchOrderBook(ctx, symbol, limit)
}

// ExchangeInfo возвращает статическое описание подключённой биржи
func (s *MarketService) ExchangeInfo() (*exchange.ExchangeInfo, error) {
	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.Describe(), nil
}
