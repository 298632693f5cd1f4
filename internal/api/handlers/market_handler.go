package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"grvtproxy/internal/service"
)

// MarketHandler отвечает за публичную маркет-дату
//
// Endpoints:
// - GET /markets - список инструментов
// - GET /instruments/{symbol}/ticker - текущий тикер
// - GET /instruments/{symbol}/orderbook?limit= - срез стакана
// - GET /exchange/info - описание биржи
type MarketHandler struct {
	markets service.MarketDataProvider
}

// NewMarketHandler создает новый MarketHandler
func NewMarketHandler(markets service.MarketDataProvider) *MarketHandler {
	return &MarketHandler{markets: markets}
}

// GetMarkets возвращает список доступных инструментов
// GET /markets
func (h *MarketHandler) GetMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.markets.Markets(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, markets)
}

// GetTicker возвращает текущий тикер инструмента
// GET /instruments/{symbol}/ticker
func (h *MarketHandler) GetTicker(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	ticker, err := h.markets.Ticker(r.Context(), symbol)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ticker)
}

// GetOrderBook возвращает срез стакана
// GET /instruments/{symbol}/orderbook?limit=10
func (h *MarketHandler) GetOrderBook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	limit := queryInt(r, "limit")

	book, err := h.markets.OrderBook(r.Context(), symbol, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, book)
}

// GetExchangeInfo возвращает статическое описание биржи
// GET /exchange/info
func (h *MarketHandler) GetExchangeInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.markets.ExchangeInfo()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, info)
}
