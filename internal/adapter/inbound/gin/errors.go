package gin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/checkout"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/paymaya"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	apperrors "github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/errors"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/requestctx"
)

// toAppError maps domain errors to their HTTP representation.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, checkout.ErrOrderNotFound):
		return apperrors.NotFound("order_not_found", "Order not found")
	case errors.Is(err, checkout.ErrUnknownMethodTag):
		return apperrors.BadRequest("unknown_payment_method", "Unknown payment method")
	case errors.Is(err, checkout.ErrSourceUnsupported):
		return apperrors.NotImplemented("ewallet_unsupported", "E-wallet payments are not supported by the configured processor")
	case errors.Is(err, paymaya.ErrInvalidCallback):
		return apperrors.BadRequest("invalid_callback", "Invalid callback")
	default:
		return apperrors.Internal(err)
	}
}

// handleCheckoutError writes the response for a domain error. Internal
// causes are attached to the gin context for the request log.
func handleCheckoutError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	c.JSON(appErr.StatusCode, errorResponse(c, appErr))
}

func errorResponse(c *gin.Context, appErr *apperrors.AppError) model.ErrorResponse {
	return model.ErrorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		RequestID: requestctx.RequestID(c.Request.Context()),
	}
}

func badRequest(c *gin.Context, code, message string) {
	handleCheckoutError(c, apperrors.BadRequest(code, message))
}
