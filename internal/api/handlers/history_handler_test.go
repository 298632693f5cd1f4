package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"grvtproxy/internal/exchange"
)

func TestHistoryHandler_GetFundingHistory(t *testing.T) {
	t.Run("start_time query reaches the service in milliseconds", func(t *testing.T) {
		var captured *int64
		handler := NewHistoryHandler(&mockHistoryProvider{
			FundingFunc: func(ctx context.Context, symbol string, sinceMillis *int64, limit int) ([]exchange.FundingRate, error) {
				captured = sinceMillis
				return []exchange.FundingRate{}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/history/funding?symbol=BTC_USDT_Perp&start_time=1700000000000", nil)
		rec := httptest.NewRecorder()

		handler.GetFundingHistory(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured == nil || *captured != 1_700_000_000_000 {
			t.Errorf("sinceMillis = %v, want 1700000000000", captured)
		}
	})

	t.Run("absent start_time stays nil", func(t *testing.T) {
		var captured *int64 = new(int64)
		handler := NewHistoryHandler(&mockHistoryProvider{
			FundingFunc: func(ctx context.Context, symbol string, sinceMillis *int64, limit int) ([]exchange.FundingRate, error) {
				captured = sinceMillis
				return []exchange.FundingRate{}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/history/funding", nil)
		rec := httptest.NewRecorder()

		handler.GetFundingHistory(rec, req)

		if captured != nil {
			t.Errorf("sinceMillis = %v, want nil", *captured)
		}
	})

	t.Run("garbage start_time maps to 400", func(t *testing.T) {
		handler := NewHistoryHandler(&mockHistoryProvider{})

		req := httptest.NewRequest(http.MethodGet, "/history/funding?start_time=yesterday", nil)
		rec := httptest.NewRecorder()

		handler.GetFundingHistory(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHistoryHandler_GetOrderHistory(t *testing.T) {
	t.Run("limit query is forwarded", func(t *testing.T) {
		var captured int
		handler := NewHistoryHandler(&mockHistoryProvider{
			OrdersFunc: func(ctx context.Context, limit int) ([]exchange.Order, error) {
				captured = limit
				return []exchange.Order{}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/history/orders?limit=50", nil)
		rec := httptest.NewRecorder()

		handler.GetOrderHistory(rec, req)

		if captured != 50 {
			t.Errorf("limit = %d, want 50", captured)
		}
	})
}
