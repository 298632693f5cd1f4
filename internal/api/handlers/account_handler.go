package handlers

import (
	"net/http"
	"strings"

	"grvtproxy/internal/service"
)

// AccountHandler отвечает за приватные данные аккаунта
//
// Endpoints:
// - GET /account/balance - балансы кошелька
// - GET /account/summary?type= - сводка аккаунта
// - GET /account/positions?symbols= - открытые позиции
type AccountHandler struct {
	account service.AccountProvider
}

// NewAccountHandler создает новый AccountHandler
func NewAccountHandler(account service.AccountProvider) *AccountHandler {
	return &AccountHandler{account: account}
}

// GetBalance возвращает балансы кошелька
// GET /account/balance
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balances, err := h.account.Balance(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, balances)
}

// GetSummary возвращает сводку аккаунта
// GET /account/summary?type=sub-account
func (h *AccountHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summaryType := r.URL.Query().Get("type")

	summary, err := h.account.Summary(r.Context(), summaryType)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// GetPositions возвращает открытые позиции
// GET /account/positions?symbols=BTC_USDT_Perp,ETH_USDT_Perp
func (h *AccountHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	if raw := r.URL.Query().Get("symbols"); raw != "" {
		for _, symbol := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(symbol); trimmed != "" {
				symbols = append(symbols, trimmed)
			}
		}
	}

	positions, err := h.account.Positions(r.Context(), symbols)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, positions)
}
