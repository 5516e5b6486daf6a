package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/draymaster/tripplanner/internal/logger"
)

// RequestLogger logs one structured line per request via the shared
// zap-backed logger, and attaches a request-scoped logger to the
// context so downstream handlers can add their own fields.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestLog := log.WithRequestID(c.GetHeader("X-Request-ID"))
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), requestLog))

		c.Next()

		requestLog.WithFields(map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Infow("request handled")
	}
}
