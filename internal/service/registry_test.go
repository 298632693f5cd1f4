package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"grvtproxy/internal/exchange"
)

func TestSessionRegistry(t *testing.T) {
	cfg := RegistryConfig{
		Environment:      exchange.EnvTestnet,
		ReadCredentials:  exchange.Credentials{APIKey: "rk", PrivateKey: "rp", TradingAccountID: "ra"},
		TradeCredentials: exchange.Credentials{APIKey: "tk", PrivateKey: "tp", TradingAccountID: "ta"},
	}

	t.Run("sessions are unavailable before initialization", func(t *testing.T) {
		registry := NewSessionRegistry(nil, zap.NewNop())

		if _, err := registry.ReadSession(); !errors.Is(err, ErrNotReady) {
			t.Errorf("ReadSession: got %v, want ErrNotReady", err)
		}
		if _, err := registry.TradeSession(); !errors.Is(err, ErrNotReady) {
			t.Errorf("TradeSession: got %v, want ErrNotReady", err)
		}
		if registry.Ready() {
			t.Error("registry must not report ready")
		}
	})

	t.Run("initialize dials both roles with their own credentials", func(t *testing.T) {
		var dialed []exchange.Config
		dial := func(ctx context.Context, cfg exchange.Config) (exchange.Session, error) {
			dialed = append(dialed, cfg)
			return NewMockSession(cfg.Role), nil
		}
		registry := NewSessionRegistry(dial, zap.NewNop())

		if err := registry.Initialize(context.Background(), cfg); err != nil {
			t.Fatalf("Initialize: %v", err)
		}

		if len(dialed) != 2 {
			t.Fatalf("expected 2 dials, got %d", len(dialed))
		}
		if dialed[0].Role != exchange.RoleRead || dialed[0].Credentials.APIKey != "rk" {
			t.Errorf("first dial: %+v", dialed[0])
		}
		if dialed[1].Role != exchange.RoleTrade || dialed[1].Credentials.APIKey != "tk" {
			t.Errorf("second dial: %+v", dialed[1])
		}

		read, err := registry.ReadSession()
		if err != nil {
			t.Fatalf("ReadSession: %v", err)
		}
		if read.Role() != exchange.RoleRead {
			t.Errorf("read session role = %s", read.Role())
		}
		trade, err := registry.TradeSession()
		if err != nil {
			t.Fatalf("TradeSession: %v", err)
		}
		if trade.Role() != exchange.RoleTrade {
			t.Errorf("trade session role = %s", trade.Role())
		}
	})

	t.Run("second initialize is rejected", func(t *testing.T) {
		dial := func(ctx context.Context, cfg exchange.Config) (exchange.Session, error) {
			return NewMockSession(cfg.Role), nil
		}
		registry := NewSessionRegistry(dial, zap.NewNop())

		if err := registry.Initialize(context.Background(), cfg); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		if err := registry.Initialize(context.Background(), cfg); !errors.Is(err, ErrAlreadyInitialized) {
			t.Errorf("got %v, want ErrAlreadyInitialized", err)
		}
	})

	t.Run("trade dial failure closes the read session", func(t *testing.T) {
		read := NewMockSession(exchange.RoleRead)
		dialErr := errors.New("login rejected")
		dial := func(ctx context.Context, cfg exchange.Config) (exchange.Session, error) {
			if cfg.Role == exchange.RoleRead {
				return read, nil
			}
			return nil, dialErr
		}
		registry := NewSessionRegistry(dial, zap.NewNop())

		if err := registry.Initialize(context.Background(), cfg); !errors.Is(err, dialErr) {
			t.Fatalf("got %v, want dial error", err)
		}
		if !read.Closed {
			t.Error("read session must be closed after failed trade dial")
		}
		if _, err := registry.ReadSession(); !errors.Is(err, ErrNotReady) {
			t.Error("registry must stay not ready after failed init")
		}
	})

	t.Run("close releases both sessions and is idempotent", func(t *testing.T) {
		read := NewMockSession(exchange.RoleRead)
		trade := NewMockSession(exchange.RoleTrade)
		dial := func(ctx context.Context, cfg exchange.Config) (exchange.Session, error) {
			if cfg.Role == exchange.RoleRead {
				return read, nil
			}
			return trade, nil
		}
		registry := NewSessionRegistry(dial, zap.NewNop())

		if err := registry.Initialize(context.Background(), cfg); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		if err := registry.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !read.Closed || !trade.Closed {
			t.Error("both sessions must be closed")
		}
		if err := registry.Close(); err != nil {
			t.Errorf("second Close: %v", err)
		}
		if _, err := registry.ReadSession(); !errors.Is(err, ErrNotReady) {
			t.Error("closed registry must report not ready")
		}
	})
}
