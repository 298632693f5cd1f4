package handlers

import (
	"net/http"
	"strconv"

	"grvtproxy/internal/service"
)

// HistoryHandler отвечает за исторические данные аккаунта
//
// Endpoints:
// - GET /history/orders?limit= - история ордеров
// - GET /history/trades?symbol=&limit= - собственные сделки
// - GET /history/funding?symbol=&limit=&start_time= - ставки финансирования
// - GET /history/account?limit= - журнал движений средств
type HistoryHandler struct {
	history service.HistoryProvider
}

// NewHistoryHandler создает новый HistoryHandler
func NewHistoryHandler(history service.HistoryProvider) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetOrderHistory возвращает историю ордеров
// GET /history/orders?limit=10
func (h *HistoryHandler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	orders, err := h.history.OrderHistory(r.Context(), queryInt(r, "limit"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

// GetMyTrades возвращает историю собственных сделок
// GET /history/trades?symbol=BTC_USDT_Perp&limit=10
func (h *HistoryHandler) GetMyTrades(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")

	trades, err := h.history.MyTrades(r.Context(), symbol, queryInt(r, "limit"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, trades)
}

// GetFundingHistory возвращает историю ставок финансирования
// GET /history/funding?symbol=BTC_USDT_Perp&limit=100&start_time=1700000000000
//
// start_time - нижняя граница в миллисекундах Unix; при отсутствии
// параметра граница бирже не передаётся вовсе
func (h *HistoryHandler) GetFundingHistory(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")

	var sinceMillis *int64
	if raw := r.URL.Query().Get("start_time"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid start_time", "start_time must be a Unix millisecond timestamp")
			return
		}
		sinceMillis = &parsed
	}

	funding, err := h.history.FundingHistory(r.Context(), symbol, sinceMillis, queryInt(r, "limit"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, funding)
}

// GetAccountHistory возвращает журнал движений средств
// GET /history/account?limit=20
func (h *HistoryHandler) GetAccountHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.AccountHistory(r.Context(), queryInt(r, "limit"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}
