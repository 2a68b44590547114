package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// AuthFailuresTotal counts rejected credentials and tokens.
	AuthFailuresTotal prometheus.Counter

	// LoginThrottledTotal counts logins rejected by the rate limiter.
	LoginThrottledTotal prometheus.Counter
)

var initOnce sync.Once

// InitMetrics registers all collectors. Safe to call more than once; tests
// construct servers repeatedly and only the first call registers.
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskhub_http_requests_total",
				Help: "Total HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		)
		HTTPRequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskhub_http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		)
		AuthFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskhub_auth_failures_total",
			Help: "Total authentication failures.",
		})
		LoginThrottledTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskhub_login_throttled_total",
			Help: "Total logins rejected by the rate limiter.",
		})

		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuthFailuresTotal,
			LoginThrottledTotal,
		)
	})
}
