package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records finished requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, took time.Duration)
}

// Metrics reports each request under its route template, so path
// parameters do not explode label cardinality. Unmatched routes are
// reported as "unmatched".
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if obs == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		obs.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
