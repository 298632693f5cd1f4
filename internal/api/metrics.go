package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики HTTP слоя
// ============================================================

// HTTPRequestDuration - длительность обработки запросов по маршрутам
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "grvtproxy",
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "Duration of HTTP requests in milliseconds",
		Buckets:   []float64{5, 10, 25, 50, 100, 200, 500, 1000, 2000, 5000},
	},
	[]string{"method", "route"},
)

// HTTPRequestsTotal - счётчик запросов по маршрутам и статусам
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "grvtproxy",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests",
	},
	[]string{"method", "route", "status"},
)

// statusRecorder перехватывает код ответа для метрик
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Metrics - middleware, наполняющий HTTP метрики.
// Лейбл route берётся из шаблона mux, а не из сырого пути,
// чтобы не плодить кардинальность на значениях {symbol}.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}

		HTTPRequestDuration.WithLabelValues(r.Method, route).
			Observe(float64(time.Since(start).Milliseconds()))
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
	})
}
