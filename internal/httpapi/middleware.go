package httpapi

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olegsv/finkurs/core/logger"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finkurs_http_requests_total",
			Help: "Total HTTP requests handled, by service, method and code.",
		},
		[]string{"service", "method", "code"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "finkurs_http_request_duration_seconds",
			Help: "HTTP request handling latency.",
		},
		[]string{"service", "method"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// RequestLogger logs every request in the structured slog idiom and feeds
// the prometheus counters.
func RequestLogger(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			took := time.Since(start)
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			requestsTotal.WithLabelValues(service, r.Method, strconv.Itoa(code)).Inc()
			requestDuration.WithLabelValues(service, r.Method).Observe(took.Seconds())

			level := slog.LevelInfo
			if code >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.HTTP.LogAttrs(r.Context(), level, "request",
				slog.String("event", "http.request"),
				slog.String("component", "http"),
				slog.String("handler", service),
				slog.String("op", r.Method+" "+r.URL.Path),
				slog.Int("http_code", code),
				slog.Duration("duration", logger.RoundMS(took)),
			)
		})
	}
}

// Recover converts handler panics into 500 responses with a logged stack.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.HTTP.Error("handler panic",
					slog.String("event", "http.panic"),
					slog.Any("err", rec),
					slog.String("stack", string(debug.Stack())),
				)
				Error(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
