package handlers

import (
	"net/http"

	"grvtproxy/internal/service"
)

// SetDeriskRatioRequest - тело запроса на изменение риск-параметра
type SetDeriskRatioRequest struct {
	Ratio string `json:"ratio"`
}

// RiskHandler отвечает за риск-параметры аккаунта
//
// Endpoints:
// - GET /risk/derisk-ratio - текущие маржинальные параметры
// - POST /risk/derisk-ratio - установить derisk ratio
type RiskHandler struct {
	risk service.RiskManager
}

// NewRiskHandler создает новый RiskHandler
func NewRiskHandler(risk service.RiskManager) *RiskHandler {
	return &RiskHandler{risk: risk}
}

// GetRiskSummary возвращает маржинальные параметры аккаунта
// GET /risk/derisk-ratio
//
// Отсутствующие у биржи поля приходят null
func (h *RiskHandler) GetRiskSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.risk.RiskSummary(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// SetDeriskRatio устанавливает derisk-to-maintenance-margin ratio
// POST /risk/derisk-ratio
//
// Тело запроса: {"ratio": "1.5"}
// Значение уходит бирже как есть; допустимый диапазон решает биржа.
func (h *RiskHandler) SetDeriskRatio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	var req SetDeriskRatioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.risk.SetDeriskRatio(r.Context(), req.Ratio); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, SuccessResponse{
		Message: "Derisk ratio updated",
		Data:    map[string]string{"ratio": req.Ratio},
	})
}
