package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"grvtproxy/internal/exchange"
	"grvtproxy/internal/models"
)

// ErrRatioRequired - запрос на установку риск-параметра без значения
var ErrRatioRequired = errors.New("ratio value is required")

// RiskService проецирует риск-параметры из сводки аккаунта
// и меняет derisk ratio.
//
// Чтение сводки идёт через read-сессию, изменение ratio - через
// trade-сессию: это управляющее действие над аккаунтом.
type RiskService struct {
	sessions SessionProvider
	logger   *zap.Logger
}

func NewRiskService(sessions SessionProvider, logger *zap.Logger) *RiskService {
	return &RiskService{sessions: sessions, logger: logger}
}

// RiskSummary возвращает маржинальные параметры аккаунта.
// Отсутствующие у биржи поля остаются nil: сводка информационная,
// частичные данные не считаются ошибкой.
func (s *RiskService) RiskSummary(ctx context.Context) (*models.RiskSummary, error) {
	session, err := s.sessions.ReadSession()
	if err != nil {
		return nil, err
	}

	summary, err := session.GetAccountSummary(ctx, exchange.SummaryTypeSubAccount)
	if err != nil {
		return nil, err
	}

	return &models.RiskSummary{
		MaintenanceMargin: summary.MaintenanceMargin,
		DeriskMargin:      summary.DeriskMargin,
		DeriskRatio:       summary.DeriskToMaintenanceMarginRatio,
	}, nil
}

// SetDeriskRatio устанавливает derisk-to-maintenance-margin ratio.
// Значение передаётся бирже как есть: допустимый диапазон
// знает только биржа, локально проверяется лишь наличие.
func (s *RiskService) SetDeriskRatio(ctx context.Context, ratio string) error {
	if ratio == "" {
		return ErrRatioRequired
	}

	session, err := s.sessions.TradeSession()
	if err != nil {
		return err
	}

	s.logger.Info("setting derisk ratio", zap.String("ratio", ratio))
	return session.SetDeriskRatio(ctx, ratio)
}
