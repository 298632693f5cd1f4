package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"grvtproxy/internal/api"
	"grvtproxy/internal/config"
	"grvtproxy/internal/exchange"
	"grvtproxy/internal/service"
	"grvtproxy/internal/websocket"
	"grvtproxy/pkg/utils"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Exchange.TradeKeyReused {
		logger.Warn("GRVT_PRIVATE_TRADE_KEY is not set, trade session signs with the read private key")
	}

	// Инициализация обеих сессий GRVT. Неудача фатальна:
	// частично подключённый шлюз не стартует.
	registry := service.NewSessionRegistry(service.GRVTDialer(logger), logger)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	err = registry.Initialize(initCtx, service.RegistryConfig{
		Environment: cfg.Exchange.Environment,
		ReadCredentials: exchange.Credentials{
			APIKey:           cfg.Exchange.APIKey,
			PrivateKey:       cfg.Exchange.PrivateKey,
			TradingAccountID: cfg.Exchange.TradingAccountID,
		},
		TradeCredentials: exchange.Credentials{
			APIKey:           cfg.Exchange.TradeAPIKey,
			PrivateKey:       cfg.Exchange.TradePrivateKey,
			TradingAccountID: cfg.Exchange.TradeTradingAccountID,
		},
		RateLimit: cfg.Exchange.RateLimit,
		RateBurst: cfg.Exchange.RateBurst,
	})
	cancelInit()
	if err != nil {
		logger.Fatal("initializing exchange sessions", zap.Error(err))
	}
	defer registry.Close()

	logger.Info("exchange sessions initialized",
		zap.String("env", cfg.Exchange.Environment))

	// Инициализация сервисов
	marketService := service.NewMarketService(registry, logger)
	accountService := service.NewAccountService(registry, logger)
	orderService := service.NewOrderService(registry, cfg.Trading.CancelTTLMs, logger)
	riskService := service.NewRiskService(registry, logger)
	historyService := service.NewHistoryService(registry, logger)

	// WebSocket hub и трансляция тикеров наблюдаемых инструментов
	hub := websocket.NewHub(logger)
	go hub.Run()

	if len(cfg.Trading.WatchSymbols) > 0 {
		readSession, err := registry.ReadSession()
		if err != nil {
			logger.Fatal("resolving read session for ticker stream", zap.Error(err))
		}
		for _, symbol := range cfg.Trading.WatchSymbols {
			symbol := symbol
			err := readSession.SubscribeTicker(symbol, func(ticker *exchange.Ticker) {
				hub.BroadcastTicker(websocket.TickerUpdateFrom(ticker))
			})
			if err != nil {
				logger.Error("subscribing to ticker stream",
					zap.String("symbol", symbol), zap.Error(err))
				continue
			}
			logger.Info("watching ticker stream", zap.String("symbol", symbol))
		}
	}

	// Настройка HTTP роутера
	router := api.SetupRoutes(&api.Dependencies{
		Markets:     marketService,
		Account:     accountService,
		Orders:      orderService,
		Risk:        riskService,
		History:     historyService,
		Hub:         hub,
		Environment: cfg.Exchange.Environment,
		Ready:       registry.Ready,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	if err := registry.Close(); err != nil {
		logger.Error("closing exchange sessions", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
