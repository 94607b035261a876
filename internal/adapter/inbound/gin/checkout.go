package gin

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/checkout"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/domain/paymaya"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/inbound"
	apperrors "github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/errors"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// checkoutAdapter implements inbound.CheckoutHttpPort.
type checkoutAdapter struct {
	checkout checkout.CheckoutDomain
	paymaya  paymaya.PaymayaDomain
}

// NewCheckoutAdapter creates a new checkout HTTP adapter. paymayaDomain may
// be nil when PayMaya checkout is disabled.
func NewCheckoutAdapter(checkoutDomain checkout.CheckoutDomain, paymayaDomain paymaya.PaymayaDomain) inbound.CheckoutHttpPort {
	return &checkoutAdapter{checkout: checkoutDomain, paymaya: paymayaDomain}
}

// RegisterCheckoutRoutes registers checkout routes. idempotent guards the
// routes that reach the processor with a side effect.
func RegisterCheckoutRoutes(r *gin.RouterGroup, adapter inbound.CheckoutHttpPort, idempotent gin.HandlerFunc) {
	orders := r.Group("/checkout/orders/:id")
	{
		orders.POST("/intent", adapter.CreateIntent)
		orders.POST("/payment-method", adapter.CreatePaymentMethod)
		orders.POST("/pay", idempotent, adapter.ProcessPayment)
		orders.POST("/confirm", adapter.ConfirmPayment)
		orders.POST("/ewallet", idempotent, adapter.CreateSource)
		orders.POST("/paymaya", adapter.CreatePaymayaCheckout)
		orders.GET("/notices", adapter.ListNotices)
	}
}

func (a *checkoutAdapter) CreateIntent(c *gin.Context) {
	order, ok := a.loadOrder(c)
	if !ok {
		return
	}

	result, err := a.checkout.CreateIntent(c.Request.Context(), order)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}

	resp := model.IntentResponse{Result: resultSuccess, IntentResult: result}
	if result == nil {
		resp.Result = resultFailure
	}
	resp.Notices = a.drain(c.Request.Context(), order.ID)
	c.JSON(http.StatusOK, resp)
}

func (a *checkoutAdapter) CreatePaymentMethod(c *gin.Context) {
	var req model.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}

	order, ok := a.loadOrder(c)
	if !ok {
		return
	}

	var detailFn checkout.DetailFunc
	if req.Details != nil {
		details := req.Details
		detailFn = func(*model.Order) map[string]any { return details }
	}

	pm, err := a.checkout.CreatePaymentMethod(c.Request.Context(), order, req.MethodTag, detailFn)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}

	resp := model.PaymentMethodResponse{Result: resultSuccess, PaymentMethod: pm}
	if pm == nil {
		resp.Result = resultFailure
	}
	resp.Notices = a.drain(c.Request.Context(), order.ID)
	c.JSON(http.StatusOK, resp)
}

func (a *checkoutAdapter) ProcessPayment(c *gin.Context) {
	var req model.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}

	order, ok := a.loadOrder(c)
	if !ok {
		return
	}

	result, err := a.checkout.ProcessPayment(c.Request.Context(), order,
		req.PaymentMethodID, req.GatewayReturnURL, req.FinalReturnURL, req.SendInvoice)
	a.respond(c, order.ID, result, err)
}

func (a *checkoutAdapter) ConfirmPayment(c *gin.Context) {
	var req model.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}

	order, ok := a.loadOrder(c)
	if !ok {
		return
	}

	result, err := a.checkout.ConfirmPayment(c.Request.Context(), order, req.PaymentIntentID, req.FinalReturnURL)
	a.respond(c, order.ID, result, err)
}

func (a *checkoutAdapter) CreateSource(c *gin.Context) {
	var req model.CreateSourceRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}

	order, ok := a.loadOrder(c)
	if !ok {
		return
	}

	successURL, failURL := a.checkout.SourceRedirectURLs(order.ID)
	result, err := a.checkout.CreateSource(c.Request.Context(), order, req.Type, successURL, failURL)
	a.respond(c, order.ID, result, err)
}

func (a *checkoutAdapter) CreatePaymayaCheckout(c *gin.Context) {
	if a.paymaya == nil {
		handleCheckoutError(c, apperrors.NotFound("paymaya_disabled", "PayMaya checkout is not enabled"))
		return
	}

	var req model.CreatePaymayaCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}
	if strings.TrimSpace(req.RedirectURL.Success) == "" {
		badRequest(c, "invalid_input", "redirect_url.success is required")
		return
	}

	order, ok := a.loadOrder(c)
	if !ok {
		return
	}

	result, err := a.paymaya.CreateCheckout(c.Request.Context(), order, req.RedirectURL)
	a.respond(c, order.ID, result, err)
}

func (a *checkoutAdapter) ListNotices(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	notices, err := a.checkout.DrainNotices(c.Request.Context(), orderID)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}
	if notices == nil {
		notices = []model.Notice{}
	}
	c.JSON(http.StatusOK, model.NoticesResponse{Notices: notices})
}

func (a *checkoutAdapter) loadOrder(c *gin.Context) (*model.Order, bool) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return nil, false
	}

	order, err := a.checkout.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		handleCheckoutError(c, err)
		return nil, false
	}
	return order, true
}

// respond writes a checkout step result. A nil result is a handled failure
// whose reasons are in the queued notices.
func (a *checkoutAdapter) respond(c *gin.Context, orderID uuid.UUID, result *model.CheckoutResult, err error) {
	if err != nil {
		handleCheckoutError(c, err)
		return
	}

	resp := model.CheckoutResponse{Result: resultFailure}
	if result != nil {
		resp.Result = result.Result
		resp.Outcome = result.Outcome
		resp.Redirect = result.Redirect
	}
	resp.Notices = a.drain(c.Request.Context(), orderID)
	c.JSON(http.StatusOK, resp)
}

// drain returns the queued notices. Notices stay queued for the notices
// endpoint when they cannot be read now.
func (a *checkoutAdapter) drain(ctx context.Context, orderID uuid.UUID) []model.Notice {
	notices, err := a.checkout.DrainNotices(ctx, orderID)
	if err != nil {
		return nil
	}
	return notices
}

// Compile-time check
var _ inbound.CheckoutHttpPort = (*checkoutAdapter)(nil)
