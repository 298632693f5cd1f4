package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

// newTestGRVT создаёт сессию, направленную на тестовый HTTP сервер,
// с уже установленной cookie (login не выполняется)
func newTestGRVT(t *testing.T, server *httptest.Server, role Role) *GRVT {
	t.Helper()

	g, err := NewGRVT(Config{
		Environment: EnvTestnet,
		Role:        role,
		Credentials: Credentials{
			APIKey:           "test-api-key",
			PrivateKey:       testPrivateKey,
			TradingAccountID: "acc-123",
		},
		RateLimit: 1000,
		RateBurst: 1000,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewGRVT: %v", err)
	}

	g.hosts.MarketData = server.URL
	g.hosts.TradeData = server.URL
	g.hosts.Edge = server.URL
	g.cookie = "gravity=test-session"
	return g
}

// capture запоминает последний запрос, пришедший на тестовый сервер
type capture struct {
	path string
	body map[string]interface{}
}

func captureServer(t *testing.T, cap *capture, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.path = r.URL.Path
		cap.body = map[string]interface{}{}
		_ = json.NewDecoder(r.Body).Decode(&cap.body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
}

func TestGRVT_CreateOrder(t *testing.T) {
	t.Run("limit order carries price, size and client order id", func(t *testing.T) {
		var cap capture
		server := captureServer(t, &cap, `{"result":{"order_id":"ord-1","state":"OPEN","create_time":"1700000000000000000"}}`)
		defer server.Close()

		g := newTestGRVT(t, server, RoleTrade)
		price := decimal.NewFromInt(50000)

		ack, err := g.CreateOrder(context.Background(), CreateOrderParams{
			Symbol:        "BTC_USDT_Perp",
			Side:          SideBuy,
			OrderType:     OrderTypeLimit,
			Amount:        decimal.NewFromFloat(0.5),
			Price:         &price,
			ClientOrderID: 42,
		})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}

		if cap.path != "/full/v1/create_order" {
			t.Errorf("unexpected path: %s", cap.path)
		}
		order, ok := cap.body["order"].(map[string]interface{})
		if !ok {
			t.Fatal("request body carries no order object")
		}
		if order["limit_price"] != "50000" {
			t.Errorf("limit_price = %v, want 50000", order["limit_price"])
		}
		if order["client_order_id"] != "42" {
			t.Errorf("client_order_id = %v, want \"42\"", order["client_order_id"])
		}
		if order["size"] != "0.5" {
			t.Errorf("size = %v, want 0.5", order["size"])
		}
		if sig, _ := cap.body["signature"].(string); len(sig) != 66 {
			t.Errorf("signature missing or malformed: %v", cap.body["signature"])
		}

		if ack.OrderID != "ord-1" {
			t.Errorf("ack.OrderID = %s, want ord-1", ack.OrderID)
		}
		if ack.ClientOrderID != 42 {
			t.Errorf("ack.ClientOrderID = %d, want 42", ack.ClientOrderID)
		}
	})

	t.Run("market order carries no limit price", func(t *testing.T) {
		var cap capture
		server := captureServer(t, &cap, `{"result":{"order_id":"ord-2","state":"FILLED"}}`)
		defer server.Close()

		g := newTestGRVT(t, server, RoleTrade)
		_, err := g.CreateOrder(context.Background(), CreateOrderParams{
			Symbol:        "BTC_USDT_Perp",
			Side:          SideSell,
			OrderType:     OrderTypeMarket,
			Amount:        decimal.NewFromInt(1),
			ClientOrderID: 7,
		})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}

		order := cap.body["order"].(map[string]interface{})
		if _, present := order["limit_price"]; present {
			t.Error("market order must not carry limit_price")
		}
	})
}

func TestGRVT_CancelOrder(t *testing.T) {
	t.Run("cancel by exchange order id carries ttl", func(t *testing.T) {
		var cap capture
		server := captureServer(t, &cap, `{"result":{"ack":true}}`)
		defer server.Close()

		g := newTestGRVT(t, server, RoleTrade)
		ack, err := g.CancelOrder(context.Background(), CancelOrderParams{
			OrderID:      "ord-9",
			TimeToLiveMs: 1000,
		})
		if err != nil {
			t.Fatalf("CancelOrder: %v", err)
		}

		if cap.body["order_id"] != "ord-9" {
			t.Errorf("order_id = %v, want ord-9", cap.body["order_id"])
		}
		if cap.body["time_to_live_ms"] != "1000" {
			t.Errorf("time_to_live_ms = %v, want \"1000\"", cap.body["time_to_live_ms"])
		}
		if _, present := cap.body["client_order_id"]; present {
			t.Error("cancel by order id must not carry client_order_id")
		}
		if !ack.Success {
			t.Error("expected successful ack")
		}
	})

	t.Run("cancel by client order id", func(t *testing.T) {
		var cap capture
		server := captureServer(t, &cap, `{"result":{"ack":true}}`)
		defer server.Close()

		g := newTestGRVT(t, server, RoleTrade)
		_, err := g.CancelOrder(context.Background(), CancelOrderParams{
			ClientOrderID: 4242,
			TimeToLiveMs:  1000,
		})
		if err != nil {
			t.Fatalf("CancelOrder: %v", err)
		}

		if cap.body["client_order_id"] != "4242" {
			t.Errorf("client_order_id = %v, want \"4242\"", cap.body["client_order_id"])
		}
		if _, present := cap.body["order_id"]; present {
			t.Error("cancel by client id must not carry order_id")
		}
	})
}

func TestGRVT_FetchFundingHistory(t *testing.T) {
	t.Run("since is passed as start_time in nanoseconds", func(t *testing.T) {
		var cap capture
		server := captureServer(t, &cap, `{"result":[]}`)
		defer server.Close()

		g := newTestGRVT(t, server, RoleRead)
		since := int64(1_700_000_000_000_000_000)
		_, err := g.FetchFundingHistory(context.Background(), "BTC_USDT_Perp", &since, 100)
		if err != nil {
			t.Fatalf("FetchFundingHistory: %v", err)
		}

		if cap.body["start_time"] != "1700000000000000000" {
			t.Errorf("start_time = %v, want 1700000000000000000", cap.body["start_time"])
		}
	})

	t.Run("nil since omits start_time entirely", func(t *testing.T) {
		var cap capture
		server := captureServer(t, &cap, `{"result":[]}`)
		defer server.Close()

		g := newTestGRVT(t, server, RoleRead)
		_, err := g.FetchFundingHistory(context.Background(), "BTC_USDT_Perp", nil, 100)
		if err != nil {
			t.Fatalf("FetchFundingHistory: %v", err)
		}

		if _, present := cap.body["start_time"]; present {
			t.Error("start_time must be absent when caller supplied none")
		}
	})
}

func TestGRVT_GetAccountSummary(t *testing.T) {
	t.Run("missing margin fields stay nil", func(t *testing.T) {
		var cap capture
		server := captureServer(t, &cap,
			`{"result":{"sub_account_id":"acc-123","maintenance_margin":"120.5","derisk_to_maintenance_margin_ratio":"1.8"}}`)
		defer server.Close()

		g := newTestGRVT(t, server, RoleRead)
		summary, err := g.GetAccountSummary(context.Background(), SummaryTypeSubAccount)
		if err != nil {
			t.Fatalf("GetAccountSummary: %v", err)
		}

		if summary.MaintenanceMargin == nil || !summary.MaintenanceMargin.Equal(decimal.NewFromFloat(120.5)) {
			t.Errorf("MaintenanceMargin = %v, want 120.5", summary.MaintenanceMargin)
		}
		if summary.DeriskMargin != nil {
			t.Errorf("DeriskMargin = %v, want nil", summary.DeriskMargin)
		}
		if summary.DeriskToMaintenanceMarginRatio == nil {
			t.Error("DeriskToMaintenanceMarginRatio should be populated")
		}
	})
}

func TestGRVT_ErrorMapping(t *testing.T) {
	t.Run("exchange rejection becomes CallError with code and message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":3001,"message":"instrument not found"}`))
		}))
		defer server.Close()

		g := newTestGRVT(t, server, RoleRead)
		_, err := g.FetchTicker(context.Background(), "NOPE_USDT_Perp")
		if err == nil {
			t.Fatal("expected error")
		}

		if !IsCallError(err) {
			t.Fatalf("expected CallError, got %T", err)
		}
		ce := err.(*CallError)
		if ce.Code != "3001" {
			t.Errorf("Code = %s, want 3001", ce.Code)
		}
		if ce.Message != "instrument not found" {
			t.Errorf("Message = %q", ce.Message)
		}
	})

	t.Run("transport failure becomes CallError with cause", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // сервер уже недоступен

		g := newTestGRVT(t, server, RoleRead)
		_, err := g.FetchMarkets(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		if !IsCallError(err) {
			t.Fatalf("expected CallError, got %T", err)
		}
		if err.(*CallError).Cause == nil {
			t.Error("transport CallError should wrap its cause")
		}
	})
}

func TestHostsForEnv(t *testing.T) {
	t.Run("testnet hosts", func(t *testing.T) {
		hosts, err := HostsForEnv(EnvTestnet)
		if err != nil {
			t.Fatalf("HostsForEnv: %v", err)
		}
		if hosts.TradeData != "https://trades.testnet.grvt.io" {
			t.Errorf("TradeData = %s", hosts.TradeData)
		}
	})

	t.Run("unknown env rejected", func(t *testing.T) {
		if _, err := HostsForEnv("staging"); err == nil {
			t.Error("expected error for unknown environment")
		}
	})
}
