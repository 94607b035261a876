package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	apperrors "github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/errors"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/logger"
)

// Recovery turns a panic in a checkout handler into a 500. The order id of
// the route, when present, is logged so the stuck order can be found.
// If log is nil, a default logger is used.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.New(nil)
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			log.Error("Panic recovered",
				"error", rec,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"order_id", c.Param("id"),
				"request_id", GetRequestID(c),
				"stack", string(debug.Stack()),
			)

			appErr := apperrors.Internal(fmt.Errorf("panic: %v", rec))
			c.AbortWithStatusJSON(appErr.StatusCode, model.ErrorResponse{
				Code:      appErr.Code,
				Message:   appErr.Message,
				RequestID: GetRequestID(c),
			})
		}()
		c.Next()
	}
}
