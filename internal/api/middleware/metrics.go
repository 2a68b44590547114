package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskhub/internal/pkg/metrics"
)

// Metrics records request counts and latency per route. Uses the route
// template (e.g. /tasks/:id) so path parameters do not blow up cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
