// Package middleware provides HTTP middleware components.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/core/apperror"
	appctx "orderdesk/internal/core/context"
	"orderdesk/pkg/logger"
)

// Recovery turns a handler panic into a 500 rendered by ErrorHandler.
// http.ErrAbortHandler is re-raised so net/http drops the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			ctx := c.Request.Context()
			logger.Error(ctx, "handler panicked",
				"method", c.Request.Method,
				"route", c.FullPath(),
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", rec)).
				WithDetail("request_id", appctx.GetRequestID(ctx)))
			c.Abort()
		}()
		c.Next()
	}
}
