package middleware

import (
	"strconv"
	"time"

	"payments_adapter/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency. Routes are labelled by their
// pattern so order ids do not become label values.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		metrics.IncHTTPRequest(route, method, statusClass(c.Writer.Status()))
		metrics.ObserveHTTPDuration(route, method, time.Since(start).Seconds())
	}
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code/100) + "xx"
}
