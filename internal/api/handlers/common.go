package handlers

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"grvtproxy/internal/exchange"
	"grvtproxy/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxRequestBodySize ограничение размера тела запроса (1 MB)
const MaxRequestBodySize = 1 << 20

// ErrorResponse стандартный формат ответа об ошибке для всех API endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse стандартный формат успешного ответа
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// respondWithJSON сериализует payload и пишет ответ с заданным статусом
func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// заголовки уже ушли, остаётся только оборвать тело
			return
		}
	}
}

// respondWithError пишет стандартный ответ об ошибке
func respondWithError(w http.ResponseWriter, status int, message, details string) {
	respondWithJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// respondWithServiceError отображает ошибку сервисного слоя в HTTP статус.
//
// Правила:
//   - ошибки валидации -> 400 Bad Request
//   - ErrNotReady -> 503 Service Unavailable
//   - *exchange.CallError (отказ биржи, транспорт) -> 502 Bad Gateway
//     с кодом и сообщением биржи как есть
//   - всё остальное -> 500 Internal Server Error
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSymbol),
		errors.Is(err, service.ErrInvalidSide),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidOrderType),
		errors.Is(err, service.ErrPriceRequired),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrNoOrderIdentifier),
		errors.Is(err, service.ErrRatioRequired):
		respondWithError(w, http.StatusBadRequest, "Validation failed", err.Error())

	case errors.Is(err, service.ErrNotReady):
		respondWithError(w, http.StatusServiceUnavailable, "Exchange sessions are not ready", err.Error())

	default:
		var callErr *exchange.CallError
		if errors.As(err, &callErr) {
			respondWithJSON(w, http.StatusBadGateway, ErrorResponse{
				Error:   "Exchange call failed",
				Code:    callErr.Code,
				Details: callErr.Message,
			})
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

// queryInt читает целочисленный query-параметр; отсутствие или мусор
// дают ноль, дальше сервис подставит свой default
func queryInt(r *http.Request, name string) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
