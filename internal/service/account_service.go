package service

import (
	"context"

	"go.uber.org/zap"

	"grvtproxy/internal/exchange"
	"grvtproxy/internal/models"
	"grvtproxy/pkg/utils"
)

// AccountService отдаёт приватные данные аккаунта через read-сессию
type AccountService struct {
	sessions SessionProvider
	logger   *zap.Logger
}

func NewAccountService(sessions SessionProvider, logger *zap.Logger) *AccountService {
	return &AccountService{sessions: sessions, logger: logger}
}

// Balance возвращает балансы кошелька
func (s *AccountService) Balance(ctx context.Context) ([]exchange.Balance, error) {
	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchBalance(ctx)
}

// Positions возвращает открытые позиции. Пустой список символов
// означает инструмент по умолчанию.
func (s *AccountService) Positions(ctx context.Context, symbols []string) ([]exchange.Position, error) {
	if len(symbols) == 0 {
		symbols = []string{models.DefaultSymbol}
	}
	for _, symbol := range symbols {
		if err := utils.ValidateSymbol(symbol); err != nil {
			return nil, ErrInvalidSymbol
		}
	}

	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.FetchPositions(ctx, symbols)
}

// Summary возвращает сводку аккаунта. Пустой тип означает sub-account.
func (s *AccountService) Summary(ctx context.Context, summaryType string) (*exchange.AccountSummary, error) {
	if summaryType == "" {
		summaryType = exchange.SummaryTypeSubAccount
	}

	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}
	return session.GetAccountSummary(ctx, summaryType)
}
