package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"grvtproxy/internal/exchange"
)

func TestRiskService_RiskSummary(t *testing.T) {
	t.Run("projects margin fields from account summary", func(t *testing.T) {
		provider := NewMockProvider()
		mm := decimal.NewFromFloat(120.5)
		ratio := decimal.NewFromFloat(1.8)
		provider.Read.SummaryFunc = func(ctx context.Context, summaryType string) (*exchange.AccountSummary, error) {
			return &exchange.AccountSummary{
				MaintenanceMargin:              &mm,
				DeriskToMaintenanceMarginRatio: &ratio,
			}, nil
		}
		svc := NewRiskService(provider, zap.NewNop())

		summary, err := svc.RiskSummary(context.Background())
		if err != nil {
			t.Fatalf("RiskSummary: %v", err)
		}

		if summary.MaintenanceMargin == nil || !summary.MaintenanceMargin.Equal(mm) {
			t.Errorf("MaintenanceMargin = %v, want 120.5", summary.MaintenanceMargin)
		}
		// биржа не прислала derisk_margin: поле остаётся nil, не ноль
		if summary.DeriskMargin != nil {
			t.Errorf("DeriskMargin = %v, want nil", summary.DeriskMargin)
		}
		if summary.DeriskRatio == nil || !summary.DeriskRatio.Equal(ratio) {
			t.Errorf("DeriskRatio = %v, want 1.8", summary.DeriskRatio)
		}

		// сводка читается read-сессией с типом sub-account
		if len(provider.Read.SummaryCalls) != 1 || provider.Read.SummaryCalls[0] != exchange.SummaryTypeSubAccount {
			t.Errorf("SummaryCalls = %v", provider.Read.SummaryCalls)
		}
		if len(provider.Trade.SummaryCalls) != 0 {
			t.Error("risk summary must not touch the trade session")
		}
	})

	t.Run("exchange failure is surfaced", func(t *testing.T) {
		provider := NewMockProvider()
		callErr := &exchange.CallError{Op: "get_account_summary", Message: "unavailable"}
		provider.Read.SummaryFunc = func(ctx context.Context, summaryType string) (*exchange.AccountSummary, error) {
			return nil, callErr
		}
		svc := NewRiskService(provider, zap.NewNop())

		_, err := svc.RiskSummary(context.Background())
		if !exchange.IsCallError(err) {
			t.Fatalf("expected CallError, got %v", err)
		}
	})
}

func TestRiskService_SetDeriskRatio(t *testing.T) {
	t.Run("ratio goes through the trade session", func(t *testing.T) {
		provider := NewMockProvider()
		svc := NewRiskService(provider, zap.NewNop())

		if err := svc.SetDeriskRatio(context.Background(), "1.5"); err != nil {
			t.Fatalf("SetDeriskRatio: %v", err)
		}

		if len(provider.Trade.SetRatioCalls) != 1 || provider.Trade.SetRatioCalls[0] != "1.5" {
			t.Errorf("SetRatioCalls = %v", provider.Trade.SetRatioCalls)
		}
		if len(provider.Read.SetRatioCalls) != 0 {
			t.Error("ratio change must not touch the read session")
		}
	})

	t.Run("empty ratio is rejected locally", func(t *testing.T) {
		provider := NewMockProvider()
		svc := NewRiskService(provider, zap.NewNop())

		if err := svc.SetDeriskRatio(context.Background(), ""); !errors.Is(err, ErrRatioRequired) {
			t.Fatalf("expected ErrRatioRequired, got %v", err)
		}
		if len(provider.Trade.SetRatioCalls) != 0 {
			t.Error("empty ratio must not reach the exchange")
		}
	})
}
