package handlers

import (
	"net/http"

	"grvtproxy/internal/models"
	"grvtproxy/internal/service"
)

// OrderHandler отвечает за торговые операции
//
// Endpoints:
// - POST /orders - создать ордер
// - DELETE /orders - отменить один ордер
// - DELETE /orders/all - отменить все ордера
// - GET /orders/open?symbol= - открытые ордера
type OrderHandler struct {
	orders service.OrderManager
}

// NewOrderHandler создает новый OrderHandler
func NewOrderHandler(orders service.OrderManager) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder создает новый ордер
// POST /orders
//
// Тело запроса:
//
//	{
//	  "symbol": "BTC_USDT_Perp",
//	  "side": "buy",
//	  "amount": "0.5",
//	  "price": "50000",
//	  "order_type": "limit"
//	}
//
// Ответы:
// - 200 OK: {"client_order_id": ..., "response": {...}}
// - 400 Bad Request: ошибка валидации (биржа не вызывалась)
// - 502 Bad Gateway: биржа отклонила ордер
// - 503 Service Unavailable: сессии ещё не инициализированы
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ticket, err := h.orders.SubmitOrder(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ticket)
}

// CancelOrder отменяет один ордер
// DELETE /orders
//
// Тело запроса несёт order_id и/или client_order_id;
// при обоих используется order_id.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	var req models.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ack, err := h.orders.CancelOrder(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ack)
}

// CancelAllOrders отменяет все открытые ордера аккаунта
// DELETE /orders/all
func (h *OrderHandler) CancelAllOrders(w http.ResponseWriter, r *http.Request) {
	ack, err := h.orders.CancelAllOrders(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ack)
}

// GetOpenOrders возвращает открытые ордера по символу
// GET /orders/open?symbol=BTC_USDT_Perp
func (h *OrderHandler) GetOpenOrders(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")

	orders, err := h.orders.OpenOrders(r.Context(), symbol)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}
