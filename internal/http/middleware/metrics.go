package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discussions_http_requests_total",
		Help: "HTTP requests by method and status.",
	}, []string{"method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "discussions_http_request_duration_seconds",
		Help:    "HTTP request handling time.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// Metrics снимает счётчик и гистограмму времени по каждому запросу.
// Лейблы — только метод и статус: пути с локалями/ID раздули бы кардинальность.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			httpRequests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
