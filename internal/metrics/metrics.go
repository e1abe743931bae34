// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "employee_api_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "employee_api_http_request_duration_seconds",
		Help:    "HTTP request latency, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LoginAttempts counts login outcomes: success, invalid_credentials, flagged, error
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "employee_api_login_attempts_total",
		Help: "Login attempts, by outcome.",
	}, []string{"outcome"})

	// Mutations counts successful write operations, by operation name
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "employee_api_mutations_total",
		Help: "Successful employee mutations, by operation.",
	}, []string{"operation"})
)

// Login outcome labels
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginFlagged            = "flagged"
	LoginError              = "error"
)

// GinMiddleware records request counts and latency per matched route
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
