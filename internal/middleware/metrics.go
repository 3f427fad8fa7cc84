package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rcc-portal/internal/service"
)

// UnmatchedRoute labels requests that hit no registered route so raw paths never become labels.
const UnmatchedRoute = "unmatched"

// Metrics records latency and status per route template. Prometheus scrapes are skipped.
func Metrics(metrics *service.MetricsService, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = UnmatchedRoute
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
