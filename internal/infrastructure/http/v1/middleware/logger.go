package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"orderdesk/pkg/logger"
)

// Logger puts log on the request context, then logs every request with
// timing and status. Health probes log at Debug.
func Logger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Default()
	}
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		l := log.WithContext(c.Request.Context())
		kv := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			kv = append(kv, "error", errs)
		}

		if c.FullPath() == "/health/live" || c.FullPath() == "/health/ready" {
			l.Debugw("http request", kv...)
			return
		}
		l.Infow("http request", kv...)
	}
}
