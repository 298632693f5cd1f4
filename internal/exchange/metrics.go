package exchange

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики connectivity-слоя
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации
// - Алерты на рост rejected/transport_error

// ExchangeCallDuration - длительность вызовов биржи по операциям
var ExchangeCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "grvtproxy",
		Subsystem: "exchange",
		Name:      "call_duration_ms",
		Help:      "Duration of GRVT API calls in milliseconds",
		Buckets:   []float64{10, 25, 50, 100, 200, 300, 500, 1000, 2000, 5000},
	},
	[]string{"op"},
)

// ExchangeCallsTotal - счётчик вызовов биржи по операциям и исходам
//
// Исходы: ok, rejected, transport_error, decode_error
var ExchangeCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "grvtproxy",
		Subsystem: "exchange",
		Name:      "calls_total",
		Help:      "Total number of GRVT API calls",
	},
	[]string{"op", "outcome"},
)

// observeExchangeCall фиксирует исход и длительность одного вызова
func observeExchangeCall(op, outcome string, elapsed time.Duration) {
	ExchangeCallsTotal.WithLabelValues(op, outcome).Inc()
	ExchangeCallDuration.WithLabelValues(op).Observe(float64(elapsed.Milliseconds()))
}
