package service

import (
	"context"

	"go.uber.org/zap"

	"grvtproxy/internal/exchange"
	"grvtproxy/internal/models"
	"grvtproxy/pkg/utils"
)

// Ограничения выборок истории
const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100

	defaultFundingLimit = 100
	maxFundingLimit     = 500

	defaultLedgerLimit = 20
	maxLedgerLimit     = 100
)

// HistoryService отдаёт исторические данные аккаунта через read-сессию
type HistoryService struct {
	sessions SessionProvider
	logger   *zap.Logger
}

func NewHistoryService(sessions SessionProvider, logger *zap.Logger) *HistoryService {
	return &HistoryService{sessions: sessions, logger: logger}
}

// OrderHistory возвращает историю ордеров аккаунта
func (s *HistoryService) OrderHistory(ctx context.Context, limit int) ([]exchange.Order, error) {
	limit = utils.ClampLimit(limit, defaultHistoryLimit, maxHistoryLimit)

	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchOrderHistory(ctx, limit)
}

// MyTrades возвращает историю собственных сделок по символу
func (s *HistoryService) MyTrades(ctx context.Context, symbol string, limit int) ([]exchange.Trade, error) {
	if symbol == "" {
		symbol = models.DefaultSymbol
	}
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, ErrInvalidSymbol
	}
	limit = utils.ClampLimit(limit, defaultHistoryLimit, maxHistoryLimit)

	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchMyTrades(ctx, symbol, limit)
}

// FundingHistory возвращает историю ставок финансирования.
//
// sinceMillis - нижняя граница в миллисекундах Unix (формат внешнего
// API); биржа принимает наносекунды, конвертация происходит здесь.
// nil означает "границу не передавать вовсе".
func (s *HistoryService) FundingHistory(ctx context.Context, symbol string, sinceMillis *int64, limit int) ([]exchange.FundingRate, error) {
	if symbol == "" {
		symbol = models.DefaultSymbol
	}
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, ErrInvalidSymbol
	}
	limit = utils.ClampLimit(limit, defaultFundingLimit, maxFundingLimit)

	var sinceNanos *int64
	if sinceMillis != nil {
		nanos := utils.MillisToNanos(*sinceMillis)
		sinceNanos = &nanos
	}

	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchFundingHistory(ctx, symbol, sinceNanos, limit)
}

// AccountHistory возвращает журнал движений средств аккаунта
func (s *HistoryService) AccountHistory(ctx context.Context, limit int) ([]exchange.LedgerEntry, error) {
	limit = utils.ClampLimit(limit, defaultLedgerLimit, maxLedgerLimit)

	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchAccountHistory(ctx, limit)
}
