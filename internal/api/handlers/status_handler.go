package handlers

import (
	"net/http"
)

// StatusResponse - ответ корневого endpoint
type StatusResponse struct {
	Service     string `json:"service"`
	Environment string `json:"environment"`
	Ready       bool   `json:"ready"`
}

// StatusHandler отвечает на корневой запрос состоянием шлюза.
// Используется health-проверками и как smoke-тест развёртывания.
type StatusHandler struct {
	environment string
	ready       func() bool
}

// NewStatusHandler создает новый StatusHandler
func NewStatusHandler(environment string, ready func() bool) *StatusHandler {
	return &StatusHandler{environment: environment, ready: ready}
}

// GetStatus возвращает состояние шлюза
// GET /
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ready := false
	if h.ready != nil {
		ready = h.ready()
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	respondWithJSON(w, status, StatusResponse{
		Service:     "grvtproxy",
		Environment: h.environment,
		Ready:       ready,
	})
}
