package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"grvtproxy/internal/api/handlers"
	"grvtproxy/internal/api/middleware"
	"grvtproxy/internal/service"
	"grvtproxy/internal/websocket"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Markets service.MarketDataProvider
	Account service.AccountProvider
	Orders  service.OrderManager
	Risk    service.RiskManager
	History service.HistoryProvider

	Hub *websocket.Hub

	Environment string
	Ready       func() bool

	Logger *zap.Logger
}

// SetupRoutes настраивает все HTTP маршруты шлюза
//
// Структура маршрутов:
//
//	GET  /                                  - состояние шлюза
//	GET  /markets                           - список инструментов
//	GET  /instruments/{symbol}/ticker       - текущий тикер
//	GET  /instruments/{symbol}/orderbook    - срез стакана
//	GET  /exchange/info                     - описание биржи
//	GET  /account/balance                   - балансы кошелька
//	GET  /account/summary                   - сводка аккаунта
//	GET  /account/positions                 - открытые позиции
//	POST /orders                            - создать ордер
//	DELETE /orders                          - отменить ордер
//	DELETE /orders/all                      - отменить все ордера
//	GET  /orders/open                       - открытые ордера
//	GET  /risk/derisk-ratio                 - маржинальные параметры
//	POST /risk/derisk-ratio                 - установить derisk ratio
//	GET  /history/orders                    - история ордеров
//	GET  /history/trades                    - собственные сделки
//	GET  /history/funding                   - ставки финансирования
//	GET  /history/account                   - журнал движений средств
//	GET  /metrics                           - Prometheus метрики
//	GET  /ws/stream                         - WebSocket поток тикеров
//
// Middleware применяется в следующем порядке:
// 1. Recovery 2. Logging 3. Metrics 4. CORS
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))
	router.Use(Metrics)
	router.Use(middleware.CORS)

	statusHandler := handlers.NewStatusHandler(deps.Environment, deps.Ready)
	router.HandleFunc("/", statusHandler.GetStatus).Methods(http.MethodGet)

	if deps.Markets != nil {
		marketHandler := handlers.NewMarketHandler(deps.Markets)
		router.HandleFunc("/markets", marketHandler.GetMarkets).Methods(http.MethodGet)
		router.HandleFunc("/instruments/{symbol}/ticker", marketHandler.GetTicker).Methods(http.MethodGet)
		router.HandleFunc("/instruments/{symbol}/orderbook", marketHandler.GetOrderBook).Methods(http.MethodGet)
		router.HandleFunc("/exchange/info", marketHandler.GetExchangeInfo).Methods(http.MethodGet)
	}

	if deps.Account != nil {
		accountHandler := handlers.NewAccountHandler(deps.Account)
		router.HandleFunc("/account/balance", accountHandler.GetBalance).Methods(http.MethodGet)
		router.HandleFunc("/account/summary", accountHandler.GetSummary).Methods(http.MethodGet)
		router.HandleFunc("/account/positions", accountHandler.GetPositions).Methods(http.MethodGet)
	}

	if deps.Orders != nil {
		orderHandler := handlers.NewOrderHandler(deps.Orders)
		router.HandleFunc("/orders", orderHandler.CreateOrder).Methods(http.MethodPost)
		router.HandleFunc("/orders/all", orderHandler.CancelAllOrders).Methods(http.MethodDelete)
		router.HandleFunc("/orders", orderHandler.CancelOrder).Methods(http.MethodDelete)
		router.HandleFunc("/orders/open", orderHandler.GetOpenOrders).Methods(http.MethodGet)
	}

	if deps.Risk != nil {
		riskHandler := handlers.NewRiskHandler(deps.Risk)
		router.HandleFunc("/risk/derisk-ratio", riskHandler.GetRiskSummary).Methods(http.MethodGet)
		router.HandleFunc("/risk/derisk-ratio", riskHandler.SetDeriskRatio).Methods(http.MethodPost)
	}

	if deps.History != nil {
		historyHandler := handlers.NewHistoryHandler(deps.History)
		router.HandleFunc("/history/orders", historyHandler.GetOrderHistory).Methods(http.MethodGet)
		router.HandleFunc("/history/trades", historyHandler.GetMyTrades).Methods(http.MethodGet)
		router.HandleFunc("/history/funding", historyHandler.GetFundingHistory).Methods(http.MethodGet)
		router.HandleFunc("/history/account", historyHandler.GetAccountHistory).Methods(http.MethodGet)
	}

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if deps.Hub != nil {
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(deps.Hub, w, r)
		})
	}

	return router
}
