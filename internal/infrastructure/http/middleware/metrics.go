package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iris_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iris_auth_attempts_total",
			Help: "Login attempts by method and outcome",
		},
		[]string{"method", "success"},
	)
	membershipDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iris_membership_decisions_total",
			Help: "Join request decisions by status",
		},
		[]string{"status"},
	)
)

// PrometheusMiddleware records request duration labelled by route pattern.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Observe(time.Since(start).Seconds())
	})
}

// RecordAuthAttempt counts a login attempt (method: github, password, test).
func RecordAuthAttempt(method string, success bool) {
	authAttempts.WithLabelValues(method, strconv.FormatBool(success)).Inc()
}

// RecordMembershipDecision counts an applied join request decision.
func RecordMembershipDecision(status string) {
	membershipDecisions.WithLabelValues(status).Inc()
}
