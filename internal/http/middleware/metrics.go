package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"pinboard.app/api/internal/metrics"
)

// Metrics records request latency by matched route. Unmatched paths share one label.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
