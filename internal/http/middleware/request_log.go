package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"memory_party/internal/logger"
)

// RequestLogger logs each request through slog and records HTTP metrics.
// Upgraded websocket requests are logged when the handler returns, which is
// right after the upgrade.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", elapsed,
			"ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			logger.Error("http request", args...)
		case status >= 400:
			logger.Warn("http request", args...)
		default:
			logger.Debug("http request", args...)
		}
	}
}
